// Package api は HTTP レスポンスの共通エンベロープを提供します。
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Error はエラーレスポンスの本体です。
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope はすべての API レスポンスを包む共通形式です。
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// WriteJSON は payload を JSON としてステータス付きで書き込みます。
func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.S().Warnw("write json failed", "error", err)
	}
}

// Success は 200 で data を返します。
func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

// Created は 201 で data を返します。
func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

// NoContent は 204 を返します。
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Fail はエラーエンベロープを返します。
func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}
