package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/leave-clean-arch/internal/core/auth"
	pgdb "github.com/ogurasousui/leave-clean-arch/internal/platform/db/postgres"
)

// CredentialRepository は PostgreSQL を利用した資格情報ストアです。
type CredentialRepository struct {
	pool pgdb.Queryer
}

// NewCredentialRepository は CredentialRepository を生成します。
func NewCredentialRepository(pool pgdb.Queryer) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// FindByEmail はメールアドレスで資格情報を取得します。
func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT person_id, email, password_hash
          FROM credentials
         WHERE email = $1
         LIMIT 1
    `, auth.NormalizeEmail(email))

	var cred auth.Credential
	if err := row.Scan(&cred.PersonID, &cred.Email, &cred.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// SaveCredential は資格情報を人物単位で作成または更新します。
func (r *CredentialRepository) SaveCredential(ctx context.Context, cred *auth.Credential) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO credentials (person_id, email, password_hash)
        VALUES ($1, $2, $3)
        ON CONFLICT (person_id) DO UPDATE
           SET email = EXCLUDED.email,
               password_hash = EXCLUDED.password_hash
    `, cred.PersonID, auth.NormalizeEmail(cred.Email), cred.PasswordHash)
	return translatePersonPgError(err)
}
