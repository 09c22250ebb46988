package handler

import (
	"time"

	"github.com/ogurasousui/leave-clean-arch/internal/core/auth"
	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

const dateLayout = "2006-01-02"

type personResponse struct {
	ID        string  `json:"id"`
	FullName  string  `json:"fullName"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	ManagerID *string `json:"managerId"`
}

type requesterResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type leaveRequestResponse struct {
	ID              string             `json:"id"`
	RequesterID     string             `json:"requesterId"`
	Requester       *requesterResponse `json:"requester,omitempty"`
	StartDate       string             `json:"startDate"`
	EndDate         string             `json:"endDate"`
	TotalDays       int                `json:"totalDays"`
	Reason          string             `json:"reason"`
	Status          string             `json:"status"`
	ReviewerComment string             `json:"reviewerComment"`
	CreatedAt       time.Time          `json:"createdAt"`
	ReviewedAt      *time.Time         `json:"reviewedAt"`
	ReviewedBy      *string            `json:"reviewedBy"`
}

type dashboardResponse struct {
	TotalCount    int                    `json:"totalCount"`
	PendingCount  int                    `json:"pendingCount"`
	ApprovedCount int                    `json:"approvedCount"`
	RejectedCount int                    `json:"rejectedCount"`
	Recent        []leaveRequestResponse `json:"recentRequests"`
}

type calendarDayResponse struct {
	Date     string                 `json:"date"`
	Requests []leaveRequestResponse `json:"requests"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Person    personResponse `json:"person"`
}

type submitRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

type reviewRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func toPersonResponse(p *person.Person) personResponse {
	return personResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Role:      string(p.Role),
		ManagerID: p.ManagerID,
	}
}

func toLeaveRequestResponse(r *leave.LeaveRequest) leaveRequestResponse {
	resp := leaveRequestResponse{
		ID:              r.ID,
		RequesterID:     r.RequesterID,
		StartDate:       r.StartDate.Format(dateLayout),
		EndDate:         r.EndDate.Format(dateLayout),
		TotalDays:       r.TotalDays(),
		Reason:          r.Reason,
		Status:          string(r.Status),
		ReviewerComment: r.ReviewerComment,
		CreatedAt:       r.CreatedAt.UTC(),
		ReviewedBy:      r.ReviewedBy,
	}
	if r.ReviewedAt != nil {
		at := r.ReviewedAt.UTC()
		resp.ReviewedAt = &at
	}
	if r.Requester != nil {
		resp.Requester = &requesterResponse{ID: r.Requester.ID, FullName: r.Requester.FullName, Email: r.Requester.Email}
	}
	return resp
}

func toLeaveRequestResponses(requests []*leave.LeaveRequest) []leaveRequestResponse {
	out := make([]leaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, toLeaveRequestResponse(r))
	}
	return out
}

func toDashboardResponse(snap *leave.DashboardSnapshot) dashboardResponse {
	return dashboardResponse{
		TotalCount:    snap.TotalCount,
		PendingCount:  snap.PendingCount,
		ApprovedCount: snap.ApprovedCount,
		RejectedCount: snap.RejectedCount,
		Recent:        toLeaveRequestResponses(snap.Recent),
	}
}

func toLoginResponse(s *auth.Session) loginResponse {
	return loginResponse{Token: s.Token, ExpiresAt: s.ExpiresAt.UTC(), Person: toPersonResponse(s.Person)}
}

// parseDate は YYYY-MM-DD または RFC3339 を受け付けます。
func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return leave.DateOf(parsed), nil
	}
	return time.Parse(dateLayout, value)
}
