package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword は bcrypt でパスワードをハッシュ化します。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// BcryptChecker は bcrypt ハッシュとの照合を行います。
type BcryptChecker struct{}

// CheckPassword は hash と password が一致しない場合にエラーを返します。
func (BcryptChecker) CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
