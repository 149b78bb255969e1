package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// maxErrorBody caps how much of an error response is read for decoding.
const maxErrorBody = 64 << 10

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the normalized form of a non-2xx backend response. The various
// body shapes the backend produces all collapse into one message plus the
// structured field errors, so callers render errors uniformly.
type Error struct {
	Status     int
	Message    string
	Fields     []FieldError
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// IsNotFound reports whether the error is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsStatus reports whether the error is a backend response with the code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == code
}

// decodeError normalizes a non-2xx response body. Known shapes:
//
//	{"message": "..."}
//	{"errors": [{"field": "...", "message": "..."}]}
//	{"detail": "..."}
//	{"detail": [{"loc": [...], "msg": "..."}]}
//
// Anything else falls back to the raw body or the HTTP status text.
func decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode}

	if after := resp.Header.Get("Retry-After"); after != "" {
		if secs, err := strconv.Atoi(after); err == nil && secs > 0 {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var payload struct {
		Message string          `json:"message"`
		Errors  []FieldError    `json:"errors"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = fallbackMessage(body, resp.StatusCode)
		return apiErr
	}

	switch {
	case payload.Message != "":
		apiErr.Message = payload.Message
		apiErr.Fields = payload.Errors
	case len(payload.Errors) > 0:
		apiErr.Fields = payload.Errors
		apiErr.Message = joinFields(payload.Errors)
	case len(payload.Detail) > 0:
		apiErr.Message, apiErr.Fields = decodeDetail(payload.Detail)
	}
	if apiErr.Message == "" {
		apiErr.Message = fallbackMessage(body, resp.StatusCode)
	}
	return apiErr
}

// decodeDetail handles the FastAPI "detail" field, which is either a plain
// string or a list of {loc, msg} entries.
func decodeDetail(raw json.RawMessage) (string, []FieldError) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return "", nil
	}

	fields := make([]FieldError, 0, len(items))
	for _, item := range items {
		field := ""
		if len(item.Loc) > 0 {
			field = fmt.Sprint(item.Loc[len(item.Loc)-1])
		}
		fields = append(fields, FieldError{Field: field, Message: item.Msg})
	}
	return joinFields(fields), fields
}

func joinFields(fields []FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Field != "" {
			parts = append(parts, f.Field+": "+f.Message)
			continue
		}
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

func fallbackMessage(body []byte, status int) string {
	text := strings.TrimSpace(string(body))
	if text == "" || strings.HasPrefix(text, "<") {
		return http.StatusText(status)
	}
	return text
}
