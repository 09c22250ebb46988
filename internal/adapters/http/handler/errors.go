package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/api"
	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/middleware"
	"github.com/ogurasousui/leave-clean-arch/internal/core/auth"
	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

type httpError struct {
	status  int
	code    string
	message string
}

func toHTTPError(err error) httpError {
	switch {
	case errors.Is(err, leave.ErrInvalidDateRange):
		return httpError{http.StatusBadRequest, "invalid_date_range", "end date must be on or after start date"}
	case errors.Is(err, leave.ErrPastStartDate):
		return httpError{http.StatusBadRequest, "past_start_date", "start date must not be in the past"}
	case errors.Is(err, leave.ErrEmptyReason):
		return httpError{http.StatusBadRequest, "empty_reason", "reason is required"}
	case errors.Is(err, leave.ErrInvalidDecision):
		return httpError{http.StatusBadRequest, "invalid_decision", "status must be Approved or Rejected"}
	case errors.Is(err, leave.ErrInvalidStatus):
		return httpError{http.StatusBadRequest, "invalid_status", "status must be Pending, Approved or Rejected"}
	case errors.Is(err, leave.ErrInvalidMonth):
		return httpError{http.StatusBadRequest, "invalid_month", "month must be between 1 and 12"}
	case errors.Is(err, leave.ErrInvalidID), errors.Is(err, person.ErrInvalidID):
		return httpError{http.StatusBadRequest, "invalid_id", "id is required"}
	case errors.Is(err, leave.ErrRequestNotFound):
		return httpError{http.StatusNotFound, "not_found", "leave request not found"}
	case errors.Is(err, person.ErrPersonNotFound):
		return httpError{http.StatusNotFound, "not_found", "person not found"}
	case errors.Is(err, leave.ErrForbidden):
		return httpError{http.StatusForbidden, "forbidden", "operation not permitted for this user"}
	case errors.Is(err, leave.ErrNotPending):
		return httpError{http.StatusConflict, "not_pending", "leave request is no longer pending"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return httpError{http.StatusUnauthorized, "invalid_credentials", "invalid email or password"}
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, leave.ErrViewerRequired):
		return httpError{http.StatusUnauthorized, "unauthorized", "authentication required"}
	default:
		return httpError{http.StatusInternalServerError, "internal", "internal server error"}
	}
}

// writeError はドメインエラーをエンベロープに変換して書き込みます。
// 対象の申請 ID や入力項目が分かる場合はメッセージに含めます。
func writeError(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger, err error) {
	reqID := middleware.GetRequestID(r.Context())
	he := toHTTPError(err)
	if he.status == http.StatusInternalServerError {
		log.Errorw("request failed", "error", err, "path", r.URL.Path, "request_id", reqID)
		api.Fail(w, he.status, he.code, he.message, reqID)
		return
	}

	message := he.message
	var le *leave.Error
	if errors.As(err, &le) {
		switch {
		case le.Field != "":
			message = le.Field + ": " + message
		case le.RequestID != "":
			message = message + " (id " + le.RequestID + ")"
		}
	}
	api.Fail(w, he.status, he.code, message, reqID)
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	api.Fail(w, http.StatusBadRequest, "invalid_payload", message, middleware.GetRequestID(r.Context()))
}
