package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/vin2grow/storefront-go/pkg/errors"
)

// apiErrorBody covers the two error body shapes the storefront API emits:
// a structured object `{"error":{"code":...,"message":...}}` or a bare
// string `{"error":"..."}`.
type apiErrorBody struct {
	Error json.RawMessage `json:"error"`
}

type apiErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the response body matches a known error
// format, the code and message are preserved. Otherwise a generic error is
// returned with the status code and raw body.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, resource string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", resource, resp.StatusCode, err)
	}

	var envelope apiErrorBody
	if json.Unmarshal(bodyBytes, &envelope) == nil && len(envelope.Error) > 0 {
		var detail apiErrorDetail
		if json.Unmarshal(envelope.Error, &detail) == nil && detail.Message != "" {
			return mapAPIError(resp.StatusCode, detail.Code, detail.Message, resource)
		}
		var msg string
		if json.Unmarshal(envelope.Error, &msg) == nil && msg != "" {
			return mapAPIError(resp.StatusCode, "", msg, resource)
		}
	}

	// Fallback: unstructured error body.
	return mapAPIError(resp.StatusCode, "", string(bodyBytes), resource)
}

// mapAPIError translates the API's HTTP status code and error payload into an
// AppError that preserves the error semantics.
func mapAPIError(status int, code, message, resource string) error {
	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(resource, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(message)
	case status == http.StatusConflict:
		return apperrors.Conflict(message)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(message)
	case status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(message)
	case status >= 500:
		return fmt.Errorf("%s server error (%d/%s): %s", resource, status, code, message)
	default:
		return &apperrors.AppError{
			Code:    code,
			Message: message,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
