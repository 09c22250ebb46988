package leave

import "slices"

// Field は絞り込み対象の項目です。
type Field int

const (
	FieldRequester Field = iota + 1
	FieldStatus
)

// Condition は「項目の値が Values のいずれかに一致する」という条件です。
// Values が空の条件は何にも一致しません。
type Condition struct {
	Field  Field
	Values []string
}

// Filter は条件の論理積です。空の Filter はすべてに一致します。
type Filter []Condition

// RequesterIs は申請者 ID の一致条件を作ります。
func RequesterIs(id string) Condition {
	return Condition{Field: FieldRequester, Values: []string{id}}
}

// RequesterIn は申請者 ID が ids に含まれる条件を作ります。
func RequesterIn(ids ...string) Condition {
	values := make([]string, len(ids))
	copy(values, ids)
	return Condition{Field: FieldRequester, Values: values}
}

// StatusIs は状態の一致条件を作ります。
func StatusIs(status Status) Condition {
	return Condition{Field: FieldStatus, Values: []string{string(status)}}
}

// Where は条件から Filter を作ります。
func Where(conds ...Condition) Filter {
	return Filter(nil).And(conds...)
}

// And は既存の条件に conds を加えた新しい Filter を返します。
func (f Filter) And(conds ...Condition) Filter {
	out := make(Filter, 0, len(f)+len(conds))
	out = append(out, f...)
	return append(out, conds...)
}

// Matches は r がすべての条件を満たすかどうかを返します。
func (f Filter) Matches(r *LeaveRequest) bool {
	for _, c := range f {
		if !c.matches(r) {
			return false
		}
	}
	return true
}

func (c Condition) matches(r *LeaveRequest) bool {
	switch c.Field {
	case FieldRequester:
		return slices.Contains(c.Values, r.RequesterID)
	case FieldStatus:
		return slices.Contains(c.Values, string(r.Status))
	default:
		return false
	}
}
