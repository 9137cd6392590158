package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	msgInternalError        = "внутренняя ошибка сервера"
	msgSlotConflict         = "выбранное время пересекается с другим бронированием"
	msgResourceUnavailable  = "нет свободных ресурсов на выбранное время"
	msgOutOfPolicyWindow    = "запрос нарушает правила записи"
	msgInvalidTransition    = "недопустимая смена статуса"
	msgUnknownEntity        = "объект не найден"
	msgQueueGraceExpired    = "время ожидания вызова истекло"
	maxRequestBodySizeBytes = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// DecodeJSON разбирает тело запроса; неизвестные поля отклоняются
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodySizeBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError пишет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondInternalError 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError отображает типизированные ошибки движка на HTTP статусы.
// Возвращает false, если ошибка не относится к известным видам.
func RespondDomainError(w http.ResponseWriter, err error) bool {
	status, message := 0, ""
	switch {
	case errors.Is(err, domain.ErrSlotConflict):
		status, message = http.StatusConflict, msgSlotConflict
	case errors.Is(err, domain.ErrResourceUnavailable):
		status, message = http.StatusConflict, msgResourceUnavailable
	case errors.Is(err, domain.ErrOutOfPolicyWindow):
		status, message = http.StatusUnprocessableEntity, msgOutOfPolicyWindow
	case errors.Is(err, domain.ErrInvalidTransition):
		status, message = http.StatusUnprocessableEntity, msgInvalidTransition
	case errors.Is(err, domain.ErrQueueGraceExpired):
		status, message = http.StatusUnprocessableEntity, msgQueueGraceExpired
	case errors.Is(err, domain.ErrUnknownEntity):
		status, message = http.StatusNotFound, msgUnknownEntity
	default:
		return false
	}
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message, Detail: err.Error()})
	return true
}

// PathID извлекает положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// QueryID извлекает необязательный int64 из query параметра
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &id, nil
}

// FormatTime время в ответах (RFC3339, UTC)
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatTimePtr то же для необязательных полей
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
