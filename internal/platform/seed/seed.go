// Package seed は開発用の初期データ投入を提供します。
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ogurasousui/leave-clean-arch/internal/core/auth"
	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
	platformauth "github.com/ogurasousui/leave-clean-arch/internal/platform/auth"
)

// PersonStore は初期データ投入に必要な人物ストアの操作です。
type PersonStore interface {
	List(ctx context.Context) ([]*person.Person, error)
	SavePerson(ctx context.Context, p *person.Person) error
}

// CredentialStore は資格情報の書き込み操作です。
type CredentialStore interface {
	SaveCredential(ctx context.Context, cred *auth.Credential) error
}

// Account は人物とログイン用パスワードの組です。
type Account struct {
	Person   *person.Person
	Password string
}

// Seeder は空のストアに初期データを投入します。
type Seeder struct {
	people      PersonStore
	credentials CredentialStore
	requests    leave.Repository
	tx          leave.TransactionManager
	log         *zap.SugaredLogger
	now         func() time.Time
	hash        func(string) (string, error)
}

// New は Seeder を生成します。tx が nil の場合はトランザクションを張りません。
func New(people PersonStore, credentials CredentialStore, requests leave.Repository, tx leave.TransactionManager, log *zap.SugaredLogger) *Seeder {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Seeder{
		people:      people,
		credentials: credentials,
		requests:    requests,
		tx:          tx,
		log:         log,
		now:         time.Now,
		hash:        platformauth.HashPassword,
	}
}

// Accounts は初期投入するアカウントを返します。manager1 の直属の部下が employee1 と employee2 です。
func Accounts() []Account {
	managerID := "1"
	return []Account{
		{
			Person:   &person.Person{ID: "1", FullName: "John Manager", Email: "manager@company.com", Role: person.RoleManager},
			Password: "manager123",
		},
		{
			Person:   &person.Person{ID: "2", FullName: "Alice Employee", Email: "employee1@company.com", Role: person.RoleEmployee, ManagerID: &managerID},
			Password: "employee123",
		},
		{
			Person:   &person.Person{ID: "3", FullName: "Bob Employee", Email: "employee2@company.com", Role: person.RoleEmployee, ManagerID: &managerID},
			Password: "employee123",
		},
	}
}

// Requests は now を基準にしたサンプル申請を返します。
func Requests(now time.Time) []*leave.LeaveRequest {
	now = now.UTC()
	today := leave.DateOf(now)
	reviewer := "1"
	reviewedAt := now
	return []*leave.LeaveRequest{
		{
			RequesterID: "2",
			StartDate:   today.AddDate(0, 0, 5),
			EndDate:     today.AddDate(0, 0, 7),
			Reason:      "Family vacation",
			Status:      leave.StatusPending,
			CreatedAt:   now,
		},
		{
			RequesterID:     "3",
			StartDate:       today.AddDate(0, 0, 10),
			EndDate:         today.AddDate(0, 0, 12),
			Reason:          "Medical appointment",
			Status:          leave.StatusApproved,
			ReviewerComment: "Approved",
			ReviewedAt:      &reviewedAt,
			ReviewedBy:      &reviewer,
			CreatedAt:       now.AddDate(0, 0, -2),
		},
	}
}

// Run は人物が一人も登録されていない場合に限り初期データを投入します。
func (s *Seeder) Run(ctx context.Context) error {
	existing, err := s.people.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list people: %w", err)
	}
	if len(existing) > 0 {
		s.log.Infow("seed skipped", "people", len(existing))
		return nil
	}

	accounts := Accounts()
	people := make([]*person.Person, 0, len(accounts))
	for _, a := range accounts {
		people = append(people, a.Person)
	}
	if err := person.ValidateHierarchy(people); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	// 外部キーを満たすよう上長から順に保存します。
	run := func(ctx context.Context) error {
		for _, a := range accounts {
			if err := s.people.SavePerson(ctx, a.Person); err != nil {
				return fmt.Errorf("seed: save person %s: %w", a.Person.ID, err)
			}
			hash, err := s.hash(a.Password)
			if err != nil {
				return fmt.Errorf("seed: hash password for %s: %w", a.Person.ID, err)
			}
			if err := s.credentials.SaveCredential(ctx, &auth.Credential{
				PersonID:     a.Person.ID,
				Email:        a.Person.Email,
				PasswordHash: hash,
			}); err != nil {
				return fmt.Errorf("seed: save credential %s: %w", a.Person.ID, err)
			}
		}
		for _, req := range Requests(s.now()) {
			if _, err := s.requests.Create(ctx, req); err != nil {
				return fmt.Errorf("seed: create leave request for %s: %w", req.RequesterID, err)
			}
		}
		return nil
	}

	if s.tx != nil {
		err = s.tx.WithinReadWrite(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return err
	}

	s.log.Infow("seed applied", "people", len(accounts))
	return nil
}
