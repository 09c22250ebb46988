package person

import "strings"

// Role は社員の役割を表します。値は外部システムと共有する文字列リテラルです。
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
)

// Person はディレクトリ上の人物エンティティです。
type Person struct {
	ID        string
	FullName  string
	Email     string
	Role      Role
	ManagerID *string
}

// IsManager は人物がマネージャーかどうかを返します。
func (p *Person) IsManager() bool {
	return p != nil && p.Role == RoleManager
}

// Validate は人物単体で検証できる不変条件を確認します。
// 上長がマネージャーであるかどうかはディレクトリ側で検証します。
func (p *Person) Validate() error {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return ErrInvalidID
	}
	if !IsValidRole(p.Role) {
		return ErrInvalidRole
	}
	if p.ManagerID != nil && *p.ManagerID == p.ID {
		return ErrSelfManaged
	}
	return nil
}

// IsValidRole は役割が既知の値かどうかを返します。
func IsValidRole(role Role) bool {
	switch role {
	case RoleEmployee, RoleManager:
		return true
	default:
		return false
	}
}
