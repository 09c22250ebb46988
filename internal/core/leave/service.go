package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
	"go.uber.org/zap"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Observer は状態遷移の発生を受け取ります。メトリクス収集に利用します。
type Observer interface {
	Submitted()
	Reviewed(decision Status)
	Withdrawn()
}

type noopObserver struct{}

func (noopObserver) Submitted()      {}
func (noopObserver) Reviewed(Status) {}
func (noopObserver) Withdrawn()      {}

// Service は休暇申請のライフサイクル、閲覧範囲、集計のユースケースをまとめます。
type Service struct {
	repo     Repository
	people   PersonDirectory
	clock    Clock
	tx       TransactionManager
	log      *zap.SugaredLogger
	observer Observer
}

// UseCase は休暇申請ユースケースの公開インターフェースです。
type UseCase interface {
	Submit(ctx context.Context, in SubmitInput) (*LeaveRequest, error)
	Review(ctx context.Context, in ReviewInput) (*LeaveRequest, error)
	Withdraw(ctx context.Context, in WithdrawInput) error
	Get(ctx context.Context, in GetInput) (*LeaveRequest, error)
	List(ctx context.Context, in ListInput) ([]*LeaveRequest, error)
	Team(ctx context.Context, viewer *person.Person) ([]*LeaveRequest, error)
	Dashboard(ctx context.Context, viewer *person.Person) (*DashboardSnapshot, error)
	OnDate(ctx context.Context, viewer *person.Person, date time.Time) ([]*LeaveRequest, error)
	Month(ctx context.Context, viewer *person.Person, year int, month time.Month) ([]CalendarDay, error)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithLogger はロガーを設定します。
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithObserver は状態遷移の通知先を設定します。
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, people PersonDirectory, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		repo:     repo,
		people:   people,
		clock:    clock,
		tx:       tx,
		log:      zap.NewNop().Sugar(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitInput は申請作成時の入力です。申請者は常に Viewer です。
type SubmitInput struct {
	Viewer    *person.Person
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// ReviewInput は承認・却下時の入力です。
type ReviewInput struct {
	Viewer    *person.Person
	RequestID string
	Decision  Status
	Comment   string
}

// WithdrawInput は申請取り下げ時の入力です。
type WithdrawInput struct {
	Viewer    *person.Person
	RequestID string
}

// GetInput は申請取得時の入力です。
type GetInput struct {
	Viewer    *person.Person
	RequestID string
}

// ListInput は一覧取得時の入力です。条件は閲覧範囲との論理積になります。
type ListInput struct {
	Viewer      *person.Person
	Status      *Status
	RequesterID string
}

// Submit は新しい休暇申請を Pending で作成します。
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*LeaveRequest, error) {
	const op = "submit"
	if in.Viewer == nil {
		return nil, ErrViewerRequired
	}

	start := DateOf(in.StartDate)
	end := DateOf(in.EndDate)
	if end.Before(start) {
		return nil, fieldError(op, "endDate", ErrInvalidDateRange)
	}

	now := s.clock.Now()
	if start.Before(DateOf(now)) {
		return nil, fieldError(op, "startDate", ErrPastStartDate)
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fieldError(op, "reason", ErrEmptyReason)
	}

	var created *LeaveRequest
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, &LeaveRequest{
			RequesterID: in.Viewer.ID,
			StartDate:   start,
			EndDate:     end,
			Reason:      reason,
			Status:      StatusPending,
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	if created.Requester == nil {
		created.Requester = &RequesterSnapshot{ID: in.Viewer.ID, FullName: in.Viewer.FullName, Email: in.Viewer.Email}
	}

	s.observer.Submitted()
	s.log.Debugw("leave request submitted", "request_id", created.ID, "requester_id", created.RequesterID, "total_days", created.TotalDays())
	return created, nil
}

// Review は Pending の申請を承認または却下します。状態確認と更新は一つのトランザクションで行います。
func (s *Service) Review(ctx context.Context, in ReviewInput) (*LeaveRequest, error) {
	const op = "review"
	if in.Viewer == nil {
		return nil, ErrViewerRequired
	}
	if strings.TrimSpace(in.RequestID) == "" {
		return nil, fieldError(op, "id", ErrInvalidID)
	}

	var reviewed *LeaveRequest
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		scope, err := s.Scope(txCtx, in.Viewer)
		if err != nil {
			return err
		}

		result, err := s.repo.Update(txCtx, in.RequestID, func(r *LeaveRequest) error {
			if !scope.Matches(r) {
				return ErrRequestNotFound
			}
			if !in.Viewer.IsManager() {
				return ErrForbidden
			}
			if r.Status != StatusPending {
				return ErrNotPending
			}
			if in.Decision != StatusApproved && in.Decision != StatusRejected {
				return fieldError(op, "status", ErrInvalidDecision)
			}

			now := s.clock.Now()
			reviewer := in.Viewer.ID
			r.Status = in.Decision
			r.ReviewerComment = strings.TrimSpace(in.Comment)
			r.ReviewedAt = &now
			r.ReviewedBy = &reviewer
			return nil
		})
		if err != nil {
			return err
		}
		reviewed = result
		return nil
	}); err != nil {
		return nil, requestError(op, in.RequestID, err)
	}

	s.observer.Reviewed(reviewed.Status)
	s.log.Debugw("leave request reviewed", "request_id", reviewed.ID, "status", reviewed.Status, "reviewed_by", in.Viewer.ID)
	return reviewed, nil
}

// Withdraw は申請者本人の Pending の申請を削除します。
func (s *Service) Withdraw(ctx context.Context, in WithdrawInput) error {
	const op = "withdraw"
	if in.Viewer == nil {
		return ErrViewerRequired
	}
	if strings.TrimSpace(in.RequestID) == "" {
		return fieldError(op, "id", ErrInvalidID)
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.RequestID, func(r *LeaveRequest) error {
			if r.RequesterID != in.Viewer.ID {
				return ErrForbidden
			}
			if r.Status != StatusPending {
				return ErrNotPending
			}
			return nil
		})
	}); err != nil {
		return requestError(op, in.RequestID, err)
	}

	s.observer.Withdrawn()
	s.log.Debugw("leave request withdrawn", "request_id", in.RequestID, "requester_id", in.Viewer.ID)
	return nil
}

// Get は閲覧範囲内の申請を取得します。範囲外の申請は存在しないものとして扱います。
func (s *Service) Get(ctx context.Context, in GetInput) (*LeaveRequest, error) {
	const op = "get"
	if in.Viewer == nil {
		return nil, ErrViewerRequired
	}
	if strings.TrimSpace(in.RequestID) == "" {
		return nil, fieldError(op, "id", ErrInvalidID)
	}

	var found *LeaveRequest
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		scope, err := s.Scope(txCtx, in.Viewer)
		if err != nil {
			return err
		}
		result, err := s.repo.FindByID(txCtx, in.RequestID)
		if err != nil {
			return err
		}
		if !scope.Matches(result) {
			return ErrRequestNotFound
		}
		found = result
		return nil
	}); err != nil {
		return nil, requestError(op, in.RequestID, err)
	}
	return found, nil
}

// List は閲覧範囲内の申請を新しい順に取得します。
func (s *Service) List(ctx context.Context, in ListInput) ([]*LeaveRequest, error) {
	if in.Viewer == nil {
		return nil, ErrViewerRequired
	}

	var extra []Condition
	if in.Status != nil {
		if !IsValidStatus(*in.Status) {
			return nil, fieldError("list", "status", ErrInvalidStatus)
		}
		extra = append(extra, StatusIs(*in.Status))
	}
	if id := strings.TrimSpace(in.RequesterID); id != "" {
		extra = append(extra, RequesterIs(id))
	}

	return s.scopedList(ctx, in.Viewer, extra...)
}

// Team はマネージャーの直属の部下の申請を取得します。
func (s *Service) Team(ctx context.Context, viewer *person.Person) ([]*LeaveRequest, error) {
	if viewer == nil {
		return nil, ErrViewerRequired
	}
	if !viewer.IsManager() {
		return nil, &Error{Op: "team", Err: ErrForbidden}
	}
	return s.scopedList(ctx, viewer)
}

// Dashboard は閲覧範囲の申請から集計を計算します。
func (s *Service) Dashboard(ctx context.Context, viewer *person.Person) (*DashboardSnapshot, error) {
	requests, err := s.scopedList(ctx, viewer)
	if err != nil {
		return nil, err
	}
	snap := Summarize(requests)
	return &snap, nil
}

// OnDate は date に休暇中の閲覧範囲内の申請を返します。
func (s *Service) OnDate(ctx context.Context, viewer *person.Person, date time.Time) ([]*LeaveRequest, error) {
	requests, err := s.scopedList(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return MembersOnDate(requests, date), nil
}

// Month は指定月のカレンダーを閲覧範囲内の申請から計算します。
func (s *Service) Month(ctx context.Context, viewer *person.Person, year int, month time.Month) ([]CalendarDay, error) {
	if month < time.January || month > time.December || year < 1 {
		return nil, fieldError("month", "month", ErrInvalidMonth)
	}
	requests, err := s.scopedList(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return MonthCalendar(requests, year, month), nil
}

// Scope は viewer の閲覧範囲をディレクトリから解決します。
func (s *Service) Scope(ctx context.Context, viewer *person.Person) (Filter, error) {
	if viewer == nil {
		return nil, ErrViewerRequired
	}
	if !viewer.IsManager() {
		return ScopeFor(viewer, nil), nil
	}
	team, err := s.people.TeamOf(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("leave: resolve team of %s: %w", viewer.ID, err)
	}
	return ScopeFor(viewer, team), nil
}

func (s *Service) scopedList(ctx context.Context, viewer *person.Person, extra ...Condition) ([]*LeaveRequest, error) {
	if viewer == nil {
		return nil, ErrViewerRequired
	}

	var requests []*LeaveRequest
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		scope, err := s.Scope(txCtx, viewer)
		if err != nil {
			return err
		}
		result, err := s.repo.List(txCtx, scope.And(extra...))
		if err != nil {
			return err
		}
		requests = result
		return nil
	}); err != nil {
		return nil, err
	}
	return requests, nil
}

// IsNotFound は err が存在しない申請を示すかどうかを返します。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound)
}
