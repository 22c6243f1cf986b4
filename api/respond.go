package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/logging"
)

// ErrorResponse 是错误响应体。
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("write response")
	}
}

// respondError 把错误映射为 HTTP 状态码：INVALID_INPUT → 400，其它 → 500。
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	ev := logging.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		ev = logging.Ctx(r.Context()).Error()
	}
	ev.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")
	respondJSON(w, status, ErrorResponse{Detail: err.Error()})
}

func statusOf(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case core.IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
