package auth

import "errors"

var (
	// ErrInvalidCredentials はメールアドレスまたはパスワードが一致しない場合に返却されます。
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrCredentialNotFound は資格情報が存在しない場合に返却されます。
	ErrCredentialNotFound = errors.New("auth: credential not found")
	// ErrInvalidToken はトークンが不正、または期限切れの場合に返却されます。
	ErrInvalidToken = errors.New("auth: invalid token")
)
