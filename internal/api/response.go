// Package api is the HTTP front door: request binding/validation,
// envelope shaping, and route registration, grounded on the teacher's
// APIResponse/ResponseMeta envelope and handler shape.
package api

import (
	"time"

	"github.com/carepath/fieldsched/internal/validation"
)

// Response is the standard response envelope for every endpoint.
type Response struct {
	Data       interface{}        `json:"data,omitempty"`
	Validation *validation.Result `json:"validation,omitempty"`
	Meta       ResponseMeta       `json:"meta"`
}

// ResponseMeta carries response-level metadata.
type ResponseMeta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// SuccessResponse wraps a successful payload.
func SuccessResponse(requestID string, data interface{}) *Response {
	return &Response{
		Data: data,
		Meta: ResponseMeta{Timestamp: time.Now().UTC(), RequestID: requestID},
	}
}

// ValidationErrorResponse wraps a rejected request's full validation
// result, per spec §6's "400 for validation and feasibility-preflight
// failures" rule.
func ValidationErrorResponse(requestID string, v *validation.Result) *Response {
	return &Response{
		Validation: v,
		Meta:       ResponseMeta{Timestamp: time.Now().UTC(), RequestID: requestID},
	}
}
