package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
	pgdb "github.com/ogurasousui/leave-clean-arch/internal/platform/db/postgres"
)

const leaveRequestColumns = `r.id, r.requester_id, r.start_date, r.end_date, r.reason, r.status, r.reviewer_comment, r.created_at, r.reviewed_at, r.reviewed_by,
               p.id, p.full_name, p.email`

// LeaveRequestRepository は PostgreSQL を利用した休暇申請永続化の実装です。
type LeaveRequestRepository struct {
	pool pgdb.Queryer
}

// NewLeaveRequestRepository は LeaveRequestRepository を生成します。
func NewLeaveRequestRepository(pool pgdb.Queryer) *LeaveRequestRepository {
	return &LeaveRequestRepository{pool: pool}
}

// Create は休暇申請を新規作成し、申請者を結合して返します。
func (r *LeaveRequestRepository) Create(ctx context.Context, req *leave.LeaveRequest) (*leave.LeaveRequest, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH r AS (
            INSERT INTO leave_requests (requester_id, start_date, end_date, reason, status, reviewer_comment, created_at, reviewed_at, reviewed_by)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING id, requester_id, start_date, end_date, reason, status, reviewer_comment, created_at, reviewed_at, reviewed_by
        )
        SELECT `+leaveRequestColumns+`
          FROM r
          JOIN people p ON p.id = r.requester_id
    `,
		req.RequesterID,
		leave.DateOf(req.StartDate),
		leave.DateOf(req.EndDate),
		req.Reason,
		string(req.Status),
		req.ReviewerComment,
		req.CreatedAt,
		nullableTimestamp(req.ReviewedAt),
		nullableString(req.ReviewedBy),
	)

	created, err := scanLeaveRequest(row)
	if err != nil {
		return nil, translateLeavePgError(err)
	}
	return created, nil
}

// FindByID は ID で休暇申請を取得します。
func (r *LeaveRequestRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+leaveRequestColumns+`
          FROM leave_requests r
          JOIN people p ON p.id = r.requester_id
         WHERE r.id = $1
         LIMIT 1
    `, id)

	found, err := scanLeaveRequest(row)
	if err != nil {
		return nil, translateLeavePgError(err)
	}
	return found, nil
}

// List は条件に一致する休暇申請を新しい順に取得します。
func (r *LeaveRequestRepository) List(ctx context.Context, filter leave.Filter) ([]*leave.LeaveRequest, error) {
	whereClause, args, err := buildLeaveWhere(filter)
	if err != nil {
		return nil, err
	}

	query := `
        SELECT ` + leaveRequestColumns + `
          FROM leave_requests r
          JOIN people p ON p.id = r.requester_id` + whereClause + `
         ORDER BY r.created_at DESC, r.id DESC
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateLeavePgError(err)
	}
	defer rows.Close()

	requests := make([]*leave.LeaveRequest, 0)
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, translateLeavePgError(err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, translateLeavePgError(err)
	}
	return requests, nil
}

// Update は対象行をロックして mutate を適用し、状態と審査項目を書き戻します。
// 書き戻しは読み取り時の状態を条件とするため、並行する審査のうち一つだけが成功します。
func (r *LeaveRequestRepository) Update(ctx context.Context, id string, mutate func(*leave.LeaveRequest) error) (*leave.LeaveRequest, error) {
	current, err := r.lockByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := current.Status
	if err := mutate(current); err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH r AS (
            UPDATE leave_requests
               SET status = $1,
                   reviewer_comment = $2,
                   reviewed_at = $3,
                   reviewed_by = $4
             WHERE id = $5 AND status = $6
            RETURNING id, requester_id, start_date, end_date, reason, status, reviewer_comment, created_at, reviewed_at, reviewed_by
        )
        SELECT `+leaveRequestColumns+`
          FROM r
          JOIN people p ON p.id = r.requester_id
    `,
		string(current.Status),
		current.ReviewerComment,
		nullableTimestamp(current.ReviewedAt),
		nullableString(current.ReviewedBy),
		id,
		string(previous),
	)

	updated, err := scanLeaveRequest(row)
	if err != nil {
		if errors.Is(err, leave.ErrRequestNotFound) {
			return nil, leave.ErrNotPending
		}
		return nil, translateLeavePgError(err)
	}
	return updated, nil
}

// Delete は対象行をロックして guard を評価し、許可された場合のみ削除します。
func (r *LeaveRequestRepository) Delete(ctx context.Context, id string, guard func(*leave.LeaveRequest) error) error {
	current, err := r.lockByID(ctx, id)
	if err != nil {
		return err
	}
	if err := guard(current); err != nil {
		return err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1 AND status = $2`, id, string(current.Status))
	if err != nil {
		return translateLeavePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrNotPending
	}
	return nil
}

func (r *LeaveRequestRepository) lockByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+leaveRequestColumns+`
          FROM leave_requests r
          JOIN people p ON p.id = r.requester_id
         WHERE r.id = $1
         FOR UPDATE OF r
    `, id)

	found, err := scanLeaveRequest(row)
	if err != nil {
		return nil, translateLeavePgError(err)
	}
	return found, nil
}

func buildLeaveWhere(filter leave.Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	args := make([]any, 0, len(filter))
	conditions := make([]string, 0, len(filter))
	for _, cond := range filter {
		if len(cond.Values) == 0 {
			conditions = append(conditions, "FALSE")
			continue
		}

		var column string
		switch cond.Field {
		case leave.FieldRequester:
			column = "r.requester_id"
		case leave.FieldStatus:
			column = "r.status"
		default:
			return "", nil, fmt.Errorf("postgres: unsupported leave filter field %d", cond.Field)
		}

		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, column+" = ANY("+placeholder+")")
		values := make([]string, len(cond.Values))
		copy(values, cond.Values)
		args = append(args, values)
	}

	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func scanLeaveRequest(row pgx.Row) (*leave.LeaveRequest, error) {
	var (
		id              string
		requesterID     string
		startDate       time.Time
		endDate         time.Time
		reason          string
		status          string
		reviewerComment string
		createdAt       time.Time
		reviewedAt      sql.NullTime
		reviewedBy      sql.NullString
		personID        string
		personName      string
		personEmail     string
	)

	if err := row.Scan(
		&id,
		&requesterID,
		&startDate,
		&endDate,
		&reason,
		&status,
		&reviewerComment,
		&createdAt,
		&reviewedAt,
		&reviewedBy,
		&personID,
		&personName,
		&personEmail,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leave.ErrRequestNotFound
		}
		return nil, err
	}

	req := &leave.LeaveRequest{
		ID:              id,
		RequesterID:     requesterID,
		StartDate:       leave.DateOf(startDate.UTC()),
		EndDate:         leave.DateOf(endDate.UTC()),
		Reason:          reason,
		Status:          leave.Status(status),
		ReviewerComment: reviewerComment,
		CreatedAt:       createdAt.UTC(),
		Requester: &leave.RequesterSnapshot{
			ID:       personID,
			FullName: personName,
			Email:    personEmail,
		},
	}
	if reviewedAt.Valid {
		at := reviewedAt.Time.UTC()
		req.ReviewedAt = &at
	}
	if reviewedBy.Valid {
		by := reviewedBy.String
		req.ReviewedBy = &by
	}
	return req, nil
}

func translateLeavePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.ErrRequestNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			return person.ErrPersonNotFound
		case checkViolationCode:
			switch pgErr.ConstraintName {
			case "leave_requests_date_range_check":
				return leave.ErrInvalidDateRange
			case "leave_requests_reason_check":
				return leave.ErrEmptyReason
			case "leave_requests_status_check":
				return leave.ErrInvalidStatus
			default:
				return err
			}
		}
	}

	return err
}

func nullableTimestamp(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}
