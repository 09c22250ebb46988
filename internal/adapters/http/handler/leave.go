package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/api"
	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/middleware"
	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
)

// LeaveHandler は休暇申請 API を提供します。
type LeaveHandler struct {
	svc leave.UseCase
	log *zap.SugaredLogger
	now func() time.Time
}

// NewLeaveHandler は LeaveHandler を生成します。
func NewLeaveHandler(svc leave.UseCase, log *zap.SugaredLogger, now func() time.Time) *LeaveHandler {
	return &LeaveHandler{svc: svc, log: log, now: now}
}

// RegisterRoutes は休暇申請 API のルートを登録します。固定パスは {id} より先に登録します。
func (h *LeaveHandler) RegisterRoutes(r chi.Router) {
	r.Route("/leave-requests", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleSubmit)
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/team", h.handleTeam)
		r.Get("/calendar", h.handleOnDate)
		r.Get("/calendar/{year}/{month}", h.handleMonth)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}/status", h.handleReview)
		r.Delete("/{id}", h.handleWithdraw)
	})
}

func (h *LeaveHandler) handleList(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())
	in := leave.ListInput{Viewer: viewer, RequesterID: r.URL.Query().Get("requesterId")}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := leave.Status(raw)
		in.Status = &status
	}

	requests, err := h.svc.List(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	api.Success(w, toLeaveRequestResponses(requests), middleware.GetRequestID(r.Context()))
}

func (h *LeaveHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, r, "invalid request payload")
		return
	}
	start, err := parseDate(strings.TrimSpace(payload.StartDate))
	if err != nil {
		badRequest(w, r, "startDate: invalid date")
		return
	}
	end, err := parseDate(strings.TrimSpace(payload.EndDate))
	if err != nil {
		badRequest(w, r, "endDate: invalid date")
		return
	}

	created, err := h.svc.Submit(r.Context(), leave.SubmitInput{
		Viewer:    viewer,
		StartDate: start,
		EndDate:   end,
		Reason:    payload.Reason,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	api.Created(w, toLeaveRequestResponse(created), middleware.GetRequestID(r.Context()))
}

func (h *LeaveHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())
	found, err := h.svc.Get(r.Context(), leave.GetInput{Viewer: viewer, RequestID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	api.Success(w, toLeaveRequestResponse(found), middleware.GetRequestID(r.Context()))
}

func (h *LeaveHandler) handleReview(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())

	var payload reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, r, "invalid request payload")
		return
	}

	reviewed, err := h.svc.Review(r.Context(), leave.ReviewInput{
		Viewer:    viewer,
		RequestID: chi.URLParam(r, "id"),
		Decision:  leave.Status(strings.TrimSpace(payload.Status)),
		Comment:   payload.Comment,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	api.Success(w, toLeaveRequestResponse(reviewed), middleware.GetRequestID(r.Context()))
}

func (h *LeaveHandler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())
	if err := h.svc.Withdraw(r.Context(), leave.WithdrawInput{Viewer: viewer, RequestID: chi.URLParam(r, "id")}); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	api.NoContent(w)
}

func (h *LeaveHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())
	snap, err := h.svc.Dashboard(r.Context(), viewer)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	api.Success(w, toDashboardResponse(snap), middleware.GetRequestID(r.Context()))
}

func (h *LeaveHandler) handleTeam(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())
	requests, err := h.svc.Team(r.Context(), viewer)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	api.Success(w, toLeaveRequestResponses(requests), middleware.GetRequestID(r.Context()))
}

// handleOnDate は date クエリ (省略時は当日) に休暇中の申請を返します。
func (h *LeaveHandler) handleOnDate(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())

	date := leave.DateOf(h.now())
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			badRequest(w, r, "date: invalid date")
			return
		}
		date = parsed
	}

	requests, err := h.svc.OnDate(r.Context(), viewer, date)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	api.Success(w, calendarDayResponse{
		Date:     date.Format(dateLayout),
		Requests: toLeaveRequestResponses(requests),
	}, middleware.GetRequestID(r.Context()))
}

func (h *LeaveHandler) handleMonth(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		badRequest(w, r, "year: must be a number")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		badRequest(w, r, "month: must be a number")
		return
	}

	days, err := h.svc.Month(r.Context(), viewer, year, time.Month(month))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	out := make([]calendarDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, calendarDayResponse{Date: d.Date.Format(dateLayout), Requests: toLeaveRequestResponses(d.Requests)})
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}
