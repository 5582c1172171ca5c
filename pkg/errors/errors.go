package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error представляет кастомную ошибку с дополнительной информацией
type Error struct {
	Code    ErrorCode           `json:"code"`
	Message string              `json:"message"`
	Details string              `json:"details,omitempty"`
	Status  int                 `json:"status,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Cause   error               `json:"-"`
}

// ErrorCode представляет код ошибки
type ErrorCode string

// Определение кодов ошибок
const (
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrValidation   ErrorCode = "VALIDATION_ERROR"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrForbidden    ErrorCode = "FORBIDDEN"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrConflict     ErrorCode = "CONFLICT"
	ErrNetwork      ErrorCode = "NETWORK_ERROR"
)

// Error возвращает сообщение об ошибке
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap возвращает причину ошибки
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is проверяет, является ли ошибка указанного типа
func (e *Error) Is(target error) bool {
	if targetError, ok := target.(*Error); ok {
		return e.Code == targetError.Code
	}
	return false
}

// New создает новую кастомную ошибку
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap оборачивает существующую ошибку в кастомную
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Network оборачивает ошибку транспорта
func Network(err error) *Error {
	return Wrap(err, ErrNetwork, "сервер недоступен")
}

// WithDetails добавляет детали к ошибке
func (e *Error) WithDetails(details string) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Details = details
	return &cp
}

// As достает *Error из цепочки ошибок
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf возвращает код ошибки или ErrInternal для чужих ошибок
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ErrInternal
}

// Message возвращает текст ошибки для показа пользователю.
// Для нормализованных ответов API это текст с сервера без причины.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// Retryable сообщает, имеет ли смысл повторять запрос
func Retryable(err error) bool {
	e, ok := As(err)
	if !ok {
		return false
	}
	return e.Code == ErrNetwork || e.Status >= http.StatusInternalServerError
}

// HTTPStatus возвращает соответствующий HTTP статус для ошибки
func (e *Error) HTTPStatus() int {
	if e == nil {
		return http.StatusOK
	}
	if e.Status != 0 {
		return e.Status
	}

	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	case ErrNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetUserMessage возвращает пользовательское сообщение об ошибке по коду
func (e *Error) GetUserMessage() string {
	if e == nil {
		return ""
	}

	switch e.Code {
	case ErrNotFound:
		return "Ресурс не найден"
	case ErrValidation:
		return "Ошибка валидации данных"
	case ErrUnauthorized:
		return "Не авторизован"
	case ErrForbidden:
		return "Доступ запрещен"
	case ErrConflict:
		return "Конфликт данных (например, дубликат)"
	case ErrNetwork:
		return "Сервер недоступен, проверьте подключение"
	case ErrInternal:
		return "Внутренняя ошибка сервера"
	default:
		return "Произошла ошибка"
	}
}

// CodeForStatus переводит HTTP статус в код ошибки
func CodeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrInternal
	}
}

// FromResponse нормализует неуспешный ответ API в *Error.
//
// Порядок разбора тела: detail, message, error, карта ошибок по полям,
// сырой текст для не-JSON ответа, fallback.
func FromResponse(status int, contentType string, body []byte, fallback string) *Error {
	e := &Error{
		Code:   CodeForStatus(status),
		Status: status,
	}

	text := strings.TrimSpace(string(body))
	isJSON := strings.Contains(contentType, "json") || (len(text) > 0 && (text[0] == '{' || text[0] == '['))

	if !isJSON || text == "" {
		if text != "" {
			e.Message = text
		} else {
			e.Message = fallback
		}
		return e
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		var list []string
		if json.Unmarshal([]byte(text), &list) == nil && len(list) > 0 {
			e.Message = strings.Join(list, ", ")
			return e
		}
		e.Message = text
		return e
	}

	for _, key := range []string{"detail", "message", "error"} {
		if msg := stringValue(payload[key]); msg != "" {
			e.Message = msg
			return e
		}
	}

	fields := fieldErrors(payload)
	if len(fields) > 0 {
		e.Fields = fields
		if e.Code == ErrInternal {
			e.Code = ErrValidation
		}
		e.Message = formatFieldErrors(fields)
		return e
	}

	e.Message = fallback
	return e
}

func stringValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, ", ")
	}
	return ""
}

func fieldErrors(payload map[string]json.RawMessage) map[string][]string {
	fields := make(map[string][]string)
	for key, raw := range payload {
		var list []string
		if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
			fields[key] = list
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			fields[key] = []string{s}
		}
	}
	return fields
}

func formatFieldErrors(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(fields[k], ", ")))
	}
	return strings.Join(parts, "; ")
}
