package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/api"
	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/middleware"
	"github.com/ogurasousui/leave-clean-arch/internal/core/auth"
)

// AuthHandler はログイン API を提供します。
type AuthHandler struct {
	svc auth.UseCase
	log *zap.SugaredLogger
}

// NewAuthHandler は AuthHandler を生成します。
func NewAuthHandler(svc auth.UseCase, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// HandleLogin はメールアドレスとパスワードを検証し、アクセストークンを返します。
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, r, "invalid request payload")
		return
	}

	session, err := h.svc.Login(r.Context(), auth.LoginInput{Email: payload.Email, Password: payload.Password})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.Infow("login succeeded", "person_id", session.Person.ID, "request_id", middleware.GetRequestID(r.Context()))
	api.Success(w, toLoginResponse(session), middleware.GetRequestID(r.Context()))
}
