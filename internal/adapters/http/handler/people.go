package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/api"
	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/middleware"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

// PeopleHandler は人物ディレクトリの参照 API を提供します。
type PeopleHandler struct {
	svc person.UseCase
	log *zap.SugaredLogger
}

// NewPeopleHandler は PeopleHandler を生成します。
func NewPeopleHandler(svc person.UseCase, log *zap.SugaredLogger) *PeopleHandler {
	return &PeopleHandler{svc: svc, log: log}
}

// RegisterRoutes は人物 API のルートを登録します。
func (h *PeopleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/people", h.handleList)
	r.Get("/people/me", h.handleMe)
}

func (h *PeopleHandler) handleList(w http.ResponseWriter, r *http.Request) {
	people, err := h.svc.ListPeople(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	out := make([]personResponse, 0, len(people))
	for _, p := range people {
		out = append(out, toPersonResponse(p))
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *PeopleHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetViewer(r.Context())
	api.Success(w, toPersonResponse(viewer), middleware.GetRequestID(r.Context()))
}
