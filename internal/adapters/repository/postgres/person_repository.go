package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
	pgdb "github.com/ogurasousui/leave-clean-arch/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// PersonRepository は PostgreSQL を利用した人物ディレクトリの実装です。
type PersonRepository struct {
	pool pgdb.Queryer
}

// NewPersonRepository は PersonRepository を生成します。
func NewPersonRepository(pool pgdb.Queryer) *PersonRepository {
	return &PersonRepository{pool: pool}
}

// FindByID は ID で人物を取得します。
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*person.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, full_name, email, role, manager_id
          FROM people
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanPerson(row)
	if err != nil {
		return nil, translatePersonPgError(err)
	}
	return found, nil
}

// TeamOf は managerID を直属の上長に持つ人物の ID を返します。
func (r *PersonRepository) TeamOf(ctx context.Context, managerID string) ([]string, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id
          FROM people
         WHERE manager_id = $1
         ORDER BY id
    `, managerID)
	if err != nil {
		return nil, translatePersonPgError(err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// List はディレクトリ上の全人物を氏名順に取得します。
func (r *PersonRepository) List(ctx context.Context) ([]*person.Person, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, full_name, email, role, manager_id
          FROM people
         ORDER BY full_name, id
    `)
	if err != nil {
		return nil, translatePersonPgError(err)
	}
	defer rows.Close()

	people := make([]*person.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return people, nil
}

// SavePerson は人物を ID 単位で作成または更新します。初期データ投入に利用します。
func (r *PersonRepository) SavePerson(ctx context.Context, p *person.Person) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO people (id, full_name, email, role, manager_id)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE
           SET full_name = EXCLUDED.full_name,
               email = EXCLUDED.email,
               role = EXCLUDED.role,
               manager_id = EXCLUDED.manager_id
    `, p.ID, p.FullName, p.Email, string(p.Role), nullableString(p.ManagerID))
	return translatePersonPgError(err)
}

func scanPerson(row pgx.Row) (*person.Person, error) {
	var (
		id        string
		fullName  string
		email     string
		role      string
		managerID sql.NullString
	)

	if err := row.Scan(&id, &fullName, &email, &role, &managerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, person.ErrPersonNotFound
		}
		return nil, err
	}

	p := &person.Person{
		ID:       id,
		FullName: fullName,
		Email:    email,
		Role:     person.Role(role),
	}
	if managerID.Valid {
		m := managerID.String
		p.ManagerID = &m
	}
	return p, nil
}

func translatePersonPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return person.ErrPersonNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return person.ErrEmailAlreadyExists
		case foreignKeyViolationCode:
			return person.ErrPersonNotFound
		case checkViolationCode:
			switch pgErr.ConstraintName {
			case "people_role_check":
				return person.ErrInvalidRole
			case "people_self_manager_check":
				return person.ErrSelfManaged
			}
		}
	}

	return err
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
