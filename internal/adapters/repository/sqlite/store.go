// Package sqlite は SQLite を利用した永続化の実装を提供します。
//
// 単一ファイルで動作するため、ローカル開発やデモ環境での利用を想定しています。
// 書き込みは sync.RWMutex で直列化し、読み取り・判定・書き込みを一つの SQL トランザクションで行います。
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/ogurasousui/leave-clean-arch/internal/core/auth"
	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// Store は人物・資格情報・休暇申請を SQLite に保存します。
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New は path のデータベースを開き、スキーマを作成します。
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate database: %w", err)
	}

	return store, nil
}

// Close はデータベース接続を閉じます。
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping は疎通確認を行います。
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL CHECK (role IN ('Employee', 'Manager')),
		manager_id TEXT REFERENCES people (id),
		CHECK (manager_id IS NULL OR manager_id <> id)
	);

	CREATE INDEX IF NOT EXISTS idx_people_manager ON people (manager_id);

	CREATE TABLE IF NOT EXISTS credentials (
		person_id TEXT PRIMARY KEY REFERENCES people (id) ON DELETE CASCADE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		requester_id TEXT NOT NULL REFERENCES people (id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Approved', 'Rejected')),
		reviewer_comment TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		reviewed_at TEXT,
		reviewed_by TEXT REFERENCES people (id),
		CHECK (end_date >= start_date)
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_requester
		ON leave_requests (requester_id, created_at DESC, id DESC);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_status
		ON leave_requests (status);
	`

	_, err := s.db.Exec(schema)
	return err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// PERSON DIRECTORY
// =============================================================================

// FindByID は ID で人物を取得します。
func (s *Store) FindByID(ctx context.Context, id string) (*person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, role, manager_id
		FROM people
		WHERE id = ?
	`, id)

	var (
		p         person.Person
		role      string
		managerID sql.NullString
	)
	if err := row.Scan(&p.ID, &p.FullName, &p.Email, &role, &managerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, person.ErrPersonNotFound
		}
		return nil, fmt.Errorf("sqlite: find person: %w", err)
	}
	p.Role = person.Role(role)
	if managerID.Valid {
		m := managerID.String
		p.ManagerID = &m
	}
	return &p, nil
}

// TeamOf は managerID を直属の上長に持つ人物の ID を返します。
func (s *Store) TeamOf(ctx context.Context, managerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM people WHERE manager_id = ? ORDER BY id`, managerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query team: %w", err)
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
	return ids, rows.Err()
}

// List はディレクトリ上の全人物を氏名順に取得します。
func (s *Store) List(ctx context.Context) ([]*person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name, email, role, manager_id
		FROM people
		ORDER BY full_name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query people: %w", err)
	}
	defer rows.Close()

	people := make([]*person.Person, 0)
	for rows.Next() {
		var (
			p         person.Person
			role      string
			managerID sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &role, &managerID); err != nil {
			return nil, err
		}
		p.Role = person.Role(role)
		if managerID.Valid {
			m := managerID.String
			p.ManagerID = &m
		}
		people = append(people, &p)
	}
	return people, rows.Err()
}

// SavePerson は人物を ID 単位で作成または更新します。
func (s *Store) SavePerson(ctx context.Context, p *person.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var managerID any
	if p.ManagerID != nil {
		managerID = *p.ManagerID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO people (id, full_name, email, role, manager_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			email = excluded.email,
			role = excluded.role,
			manager_id = excluded.manager_id
	`, p.ID, p.FullName, p.Email, string(p.Role), managerID)
	if err != nil {
		return translateConstraintError(err, person.ErrEmailAlreadyExists)
	}
	return nil
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// FindByEmail はメールアドレスで資格情報を取得します。
func (s *Store) FindByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cred auth.Credential
	err := s.db.QueryRowContext(ctx, `
		SELECT person_id, email, password_hash
		FROM credentials
		WHERE email = ?
	`, auth.NormalizeEmail(email)).Scan(&cred.PersonID, &cred.Email, &cred.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("sqlite: find credential: %w", err)
	}
	return &cred, nil
}

// SaveCredential は資格情報を人物単位で作成または更新します。
func (s *Store) SaveCredential(ctx context.Context, cred *auth.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (person_id, email, password_hash)
		VALUES (?, ?, ?)
		ON CONFLICT (person_id) DO UPDATE SET
			email = excluded.email,
			password_hash = excluded.password_hash
	`, cred.PersonID, auth.NormalizeEmail(cred.Email), cred.PasswordHash)
	if err != nil {
		return translateConstraintError(err, person.ErrEmailAlreadyExists)
	}
	return nil
}

// =============================================================================
// LEAVE REQUESTS (leave.Repository)
// =============================================================================

const leaveSelect = `
	SELECT r.id, r.requester_id, r.start_date, r.end_date, r.reason, r.status, r.reviewer_comment,
	       r.created_at, r.reviewed_at, r.reviewed_by, p.id, p.full_name, p.email
	FROM leave_requests r
	JOIN people p ON p.id = r.requester_id`

// LeaveRequests は Store を leave.Repository として公開します。
// 人物ディレクトリと同名のメソッドが衝突するため、別の型で包みます。
func (s *Store) LeaveRequests() *LeaveRequestRepository {
	return &LeaveRequestRepository{store: s}
}

// LeaveRequestRepository は Store 上の leave.Repository 実装です。
type LeaveRequestRepository struct {
	store *Store
}

// Create は休暇申請を新規作成します。ID は UUID で採番します。
func (r *LeaveRequestRepository) Create(ctx context.Context, req *leave.LeaveRequest) (*leave.LeaveRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO leave_requests
		(id, requester_id, start_date, end_date, reason, status, reviewer_comment, created_at, reviewed_at, reviewed_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		req.RequesterID,
		formatDate(req.StartDate),
		formatDate(req.EndDate),
		req.Reason,
		string(req.Status),
		req.ReviewerComment,
		formatTimestamp(createdAt),
		nullableTimestamp(req.ReviewedAt),
		nullableString(req.ReviewedBy),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, person.ErrPersonNotFound
		}
		return nil, fmt.Errorf("sqlite: insert leave request: %w", err)
	}

	return findLeaveRequest(ctx, r.store.db, id)
}

// FindByID は ID で休暇申請を取得します。
func (r *LeaveRequestRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return findLeaveRequest(ctx, r.store.db, id)
}

// List は条件に一致する休暇申請を新しい順に取得します。
func (r *LeaveRequestRepository) List(ctx context.Context, filter leave.Filter) ([]*leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.store.db.QueryContext(ctx, leaveSelect+where+`
	ORDER BY r.created_at DESC, r.id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*leave.LeaveRequest, 0)
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Update は読み取り、mutate、書き戻しを一つのトランザクションで行います。
func (r *LeaveRequestRepository) Update(ctx context.Context, id string, mutate func(*leave.LeaveRequest) error) (*leave.LeaveRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := findLeaveRequest(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	previous := current.Status
	if err := mutate(current); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE leave_requests
		SET status = ?, reviewer_comment = ?, reviewed_at = ?, reviewed_by = ?
		WHERE id = ? AND status = ?
	`,
		string(current.Status),
		current.ReviewerComment,
		nullableTimestamp(current.ReviewedAt),
		nullableString(current.ReviewedBy),
		id,
		string(previous),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: update leave request: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, leave.ErrNotPending
	}

	updated, err := findLeaveRequest(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return updated, nil
}

// Delete は読み取り、guard、削除を一つのトランザクションで行います。
func (r *LeaveRequestRepository) Delete(ctx context.Context, id string, guard func(*leave.LeaveRequest) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := findLeaveRequest(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := guard(current); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM leave_requests WHERE id = ? AND status = ?`, id, string(current.Status))
	if err != nil {
		return fmt.Errorf("sqlite: delete leave request: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return leave.ErrNotPending
	}
	return tx.Commit()
}

var (
	_ leave.Repository     = (*LeaveRequestRepository)(nil)
	_ person.Directory     = (*Store)(nil)
	_ auth.CredentialStore = (*Store)(nil)
)

func findLeaveRequest(ctx context.Context, db execer, id string) (*leave.LeaveRequest, error) {
	row := db.QueryRowContext(ctx, leaveSelect+`
	WHERE r.id = ?`, id)
	req, err := scanLeaveRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, leave.ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLeaveRequest(row scanner) (*leave.LeaveRequest, error) {
	var (
		req        leave.LeaveRequest
		snap       leave.RequesterSnapshot
		status     string
		startDate  string
		endDate    string
		createdAt  string
		reviewedAt sql.NullString
		reviewedBy sql.NullString
	)

	if err := row.Scan(
		&req.ID,
		&req.RequesterID,
		&startDate,
		&endDate,
		&req.Reason,
		&status,
		&req.ReviewerComment,
		&createdAt,
		&reviewedAt,
		&reviewedBy,
		&snap.ID,
		&snap.FullName,
		&snap.Email,
	); err != nil {
		return nil, err
	}

	var err error
	if req.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return nil, fmt.Errorf("sqlite: parse start_date: %w", err)
	}
	if req.EndDate, err = time.Parse(dateLayout, endDate); err != nil {
		return nil, fmt.Errorf("sqlite: parse end_date: %w", err)
	}
	if req.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return nil, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if reviewedAt.Valid {
		at, err := time.Parse(timestampLayout, reviewedAt.String)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse reviewed_at: %w", err)
		}
		req.ReviewedAt = &at
	}
	if reviewedBy.Valid {
		by := reviewedBy.String
		req.ReviewedBy = &by
	}
	req.Status = leave.Status(status)
	req.Requester = &snap
	return &req, nil
}

func buildWhere(filter leave.Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	var args []any
	conditions := make([]string, 0, len(filter))
	for _, cond := range filter {
		if len(cond.Values) == 0 {
			conditions = append(conditions, "0")
			continue
		}

		var column string
		switch cond.Field {
		case leave.FieldRequester:
			column = "r.requester_id"
		case leave.FieldStatus:
			column = "r.status"
		default:
			return "", nil, fmt.Errorf("sqlite: unsupported leave filter field %d", cond.Field)
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cond.Values)), ", ")
		conditions = append(conditions, column+" IN ("+placeholders+")")
		for _, v := range cond.Values {
			args = append(args, v)
		}
	}

	return `
	WHERE ` + strings.Join(conditions, " AND "), args, nil
}

func formatDate(t time.Time) string {
	return leave.DateOf(t).Format(dateLayout)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func nullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func isForeignKeyError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

func translateConstraintError(err error, unique error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			return unique
		case sqlite3.ErrConstraintForeignKey:
			return person.ErrPersonNotFound
		case sqlite3.ErrConstraintCheck:
			return person.ErrInvalidRole
		}
	}
	return fmt.Errorf("sqlite: %w", err)
}
