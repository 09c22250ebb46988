// Package memory はプロセス内メモリを利用した永続化の実装を提供します。テストや開発用途向けです。
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/leave-clean-arch/internal/core/auth"
	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

// Store は人物・資格情報・休暇申請をメモリ上に保持します。
type Store struct {
	mu          sync.RWMutex
	people      map[string]*person.Person
	credentials map[string]*auth.Credential
	requests    map[string]*leave.LeaveRequest
	newID       func() string
}

// NewStore は空の Store を生成します。
func NewStore() *Store {
	return &Store{
		people:      make(map[string]*person.Person),
		credentials: make(map[string]*auth.Credential),
		requests:    make(map[string]*leave.LeaveRequest),
		newID:       uuid.NewString,
	}
}

// Ping は常に成功します。
func (s *Store) Ping(context.Context) error {
	return nil
}

// FindByID は ID で人物を取得します。
func (s *Store) FindByID(_ context.Context, id string) (*person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.people[id]
	if !ok {
		return nil, person.ErrPersonNotFound
	}
	return clonePerson(p), nil
}

// TeamOf は managerID を直属の上長に持つ人物の ID を返します。
func (s *Store) TeamOf(_ context.Context, managerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0)
	for _, p := range s.people {
		if p.ManagerID != nil && *p.ManagerID == managerID {
			ids = append(ids, p.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// List はディレクトリ上の全人物を氏名順に取得します。
func (s *Store) List(_ context.Context) ([]*person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	people := make([]*person.Person, 0, len(s.people))
	for _, p := range s.people {
		people = append(people, clonePerson(p))
	}
	sort.Slice(people, func(i, j int) bool {
		if people[i].FullName != people[j].FullName {
			return people[i].FullName < people[j].FullName
		}
		return people[i].ID < people[j].ID
	})
	return people, nil
}

// SavePerson は人物を ID 単位で作成または更新します。
func (s *Store) SavePerson(_ context.Context, p *person.Person) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.people {
		if existing.ID != p.ID && existing.Email == p.Email {
			return person.ErrEmailAlreadyExists
		}
	}
	if p.ManagerID != nil {
		if _, ok := s.people[*p.ManagerID]; !ok {
			return person.ErrPersonNotFound
		}
	}
	s.people[p.ID] = clonePerson(p)
	return nil
}

// FindByEmail はメールアドレスで資格情報を取得します。
func (s *Store) FindByEmail(_ context.Context, email string) (*auth.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.credentials[auth.NormalizeEmail(email)]
	if !ok {
		return nil, auth.ErrCredentialNotFound
	}
	clone := *cred
	return &clone, nil
}

// SaveCredential は資格情報を保存します。
func (s *Store) SaveCredential(_ context.Context, cred *auth.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[cred.PersonID]; !ok {
		return person.ErrPersonNotFound
	}
	email := auth.NormalizeEmail(cred.Email)
	for key, existing := range s.credentials {
		if existing.PersonID == cred.PersonID {
			delete(s.credentials, key)
		}
	}
	if _, ok := s.credentials[email]; ok {
		return person.ErrEmailAlreadyExists
	}
	s.credentials[email] = &auth.Credential{PersonID: cred.PersonID, Email: email, PasswordHash: cred.PasswordHash}
	return nil
}

// LeaveRequests は Store を leave.Repository として公開します。
func (s *Store) LeaveRequests() *LeaveRequestRepository {
	return &LeaveRequestRepository{store: s}
}

// LeaveRequestRepository は Store 上の leave.Repository 実装です。
type LeaveRequestRepository struct {
	store *Store
}

// Create は休暇申請を保存します。
func (r *LeaveRequestRepository) Create(_ context.Context, req *leave.LeaveRequest) (*leave.LeaveRequest, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[req.RequesterID]; !ok {
		return nil, person.ErrPersonNotFound
	}

	stored := cloneRequest(req)
	if stored.ID == "" {
		stored.ID = s.newID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	stored.StartDate = leave.DateOf(stored.StartDate)
	stored.EndDate = leave.DateOf(stored.EndDate)
	stored.Requester = nil
	s.requests[stored.ID] = stored
	return s.joinedLocked(stored), nil
}

// FindByID は ID で休暇申請を取得します。
func (r *LeaveRequestRepository) FindByID(_ context.Context, id string) (*leave.LeaveRequest, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, leave.ErrRequestNotFound
	}
	return s.joinedLocked(req), nil
}

// List は条件に一致する休暇申請を新しい順に取得します。
func (r *LeaveRequestRepository) List(_ context.Context, filter leave.Filter) ([]*leave.LeaveRequest, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*leave.LeaveRequest, 0)
	for _, req := range s.requests {
		if filter.Matches(req) {
			out = append(out, s.joinedLocked(req))
		}
	}
	leave.SortNewestFirst(out)
	return out, nil
}

// Update は書き込みロックを保持したまま mutate を適用します。
func (r *LeaveRequestRepository) Update(_ context.Context, id string, mutate func(*leave.LeaveRequest) error) (*leave.LeaveRequest, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.requests[id]
	if !ok {
		return nil, leave.ErrRequestNotFound
	}

	working := s.joinedLocked(current)
	if err := mutate(working); err != nil {
		return nil, err
	}

	stored := cloneRequest(current)
	stored.Status = working.Status
	stored.ReviewerComment = working.ReviewerComment
	stored.ReviewedAt = cloneTime(working.ReviewedAt)
	stored.ReviewedBy = cloneString(working.ReviewedBy)
	s.requests[id] = stored
	return s.joinedLocked(stored), nil
}

// Delete は書き込みロックを保持したまま guard を評価し、許可された場合のみ削除します。
func (r *LeaveRequestRepository) Delete(_ context.Context, id string, guard func(*leave.LeaveRequest) error) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.requests[id]
	if !ok {
		return leave.ErrRequestNotFound
	}
	if err := guard(s.joinedLocked(current)); err != nil {
		return err
	}
	delete(s.requests, id)
	return nil
}

var (
	_ leave.Repository     = (*LeaveRequestRepository)(nil)
	_ person.Directory     = (*Store)(nil)
	_ auth.CredentialStore = (*Store)(nil)
)

func (s *Store) joinedLocked(req *leave.LeaveRequest) *leave.LeaveRequest {
	out := cloneRequest(req)
	if p, ok := s.people[req.RequesterID]; ok {
		out.Requester = &leave.RequesterSnapshot{ID: p.ID, FullName: p.FullName, Email: p.Email}
	}
	return out
}

func clonePerson(p *person.Person) *person.Person {
	out := *p
	out.ManagerID = cloneString(p.ManagerID)
	return &out
}

func cloneRequest(req *leave.LeaveRequest) *leave.LeaveRequest {
	out := *req
	out.ReviewedAt = cloneTime(req.ReviewedAt)
	out.ReviewedBy = cloneString(req.ReviewedBy)
	if req.Requester != nil {
		snap := *req.Requester
		out.Requester = &snap
	}
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
