package leave

import "time"

// Status は休暇申請の状態を表します。値は外部の利用者と共有する文字列リテラルです。
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IsTerminal は以降の遷移や削除ができない状態かどうかを返します。
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsValidStatus は状態が既知の値かどうかを返します。
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// LeaveRequest は休暇申請エンティティです。
type LeaveRequest struct {
	ID              string
	RequesterID     string
	StartDate       time.Time
	EndDate         time.Time
	Reason          string
	Status          Status
	ReviewerComment string
	CreatedAt       time.Time
	ReviewedAt      *time.Time
	ReviewedBy      *string
	Requester       *RequesterSnapshot
}

// RequesterSnapshot は申請者の表示用スナップショットです。読み出し時に結合されます。
type RequesterSnapshot struct {
	ID       string
	FullName string
	Email    string
}

// TotalDays は開始日と終了日を両端含みで数えた日数です。保存はせず常に再計算します。
func (r *LeaveRequest) TotalDays() int {
	return DaysBetween(r.StartDate, r.EndDate) + 1
}

// Covers は date が [StartDate, EndDate] に含まれるかどうかを返します。
func (r *LeaveRequest) Covers(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(r.StartDate)) && !d.After(DateOf(r.EndDate))
}

// DateOf は t の暦日を UTC の 0 時として返します。
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween は from から to までの暦日数を返します。
func DaysBetween(from, to time.Time) int {
	// time.Duration は約 292 年で飽和するため Unix 秒で数えます。
	return int((DateOf(to).Unix() - DateOf(from).Unix()) / secondsPerDay)
}
