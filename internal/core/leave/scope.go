package leave

import "github.com/ogurasousui/leave-clean-arch/internal/core/person"

// ScopeFor は viewer が閲覧できる申請の条件を返します。
//
// マネージャーは直属の部下 team の申請のみを閲覧でき、自分自身の申請は含まれません。
// 従業員は自分の申請のみを閲覧できます。
func ScopeFor(viewer *person.Person, team []string) Filter {
	if viewer.IsManager() {
		return Where(RequesterIn(team...))
	}
	return Where(RequesterIs(viewer.ID))
}
