package leave

import (
	"sort"
	"time"
)

// RecentLimit はダッシュボードに載せる最新申請の件数です。
const RecentLimit = 5

// DashboardSnapshot は閲覧範囲の申請から都度計算される集計結果です。
type DashboardSnapshot struct {
	TotalCount    int
	PendingCount  int
	ApprovedCount int
	RejectedCount int
	Recent        []*LeaveRequest
}

// CalendarDay は暦日とその日に休暇中の申請です。
type CalendarDay struct {
	Date     time.Time
	Requests []*LeaveRequest
}

// Summarize は申請集合から件数と最新申請を計算します。
func Summarize(requests []*LeaveRequest) DashboardSnapshot {
	var snap DashboardSnapshot
	for _, r := range requests {
		snap.TotalCount++
		switch r.Status {
		case StatusPending:
			snap.PendingCount++
		case StatusApproved:
			snap.ApprovedCount++
		case StatusRejected:
			snap.RejectedCount++
		}
	}

	sorted := make([]*LeaveRequest, len(requests))
	copy(sorted, requests)
	SortNewestFirst(sorted)
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	snap.Recent = sorted
	return snap
}

// SortNewestFirst は CreatedAt の降順、同時刻は ID の降順に並べ替えます。
func SortNewestFirst(requests []*LeaveRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		a, b := requests[i], requests[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// MembersOnDate は date が期間に含まれる申請を元の順序のまま返します。
func MembersOnDate(requests []*LeaveRequest, date time.Time) []*LeaveRequest {
	out := make([]*LeaveRequest, 0)
	for _, r := range requests {
		if r.Covers(date) {
			out = append(out, r)
		}
	}
	return out
}

// MonthCalendar は year 年 month 月の各日について MembersOnDate を計算します。
func MonthCalendar(requests []*LeaveRequest, year int, month time.Month) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	out := make([]CalendarDay, 0, days)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i)
		out = append(out, CalendarDay{Date: date, Requests: MembersOnDate(requests, date)})
	}
	return out
}
