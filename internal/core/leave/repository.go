package leave

import (
	"context"

	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

// Repository は休暇申請の永続化の抽象です。
//
// Update と Delete は対象行の読み取り、コールバック、書き込みを一つの原子的な操作として
// 実行しなければなりません。コールバックがエラーを返した場合は何も書き込みません。
type Repository interface {
	Create(ctx context.Context, req *LeaveRequest) (*LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	// List は条件に一致する申請を CreatedAt の降順、同時刻は ID の降順で返します。
	List(ctx context.Context, filter Filter) ([]*LeaveRequest, error)
	Update(ctx context.Context, id string, mutate func(*LeaveRequest) error) (*LeaveRequest, error)
	Delete(ctx context.Context, id string, guard func(*LeaveRequest) error) error
}

// PersonDirectory は申請処理が必要とする人物ディレクトリの操作です。
type PersonDirectory interface {
	FindByID(ctx context.Context, id string) (*person.Person, error)
	TeamOf(ctx context.Context, managerID string) ([]string, error)
}
