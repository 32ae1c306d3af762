package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/redmonkez12/pheafer-api/internal/httputil"
)

// ErrorKind classifies a failed call independently of transport details
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindDuplicateEmail     ErrorKind = "duplicate_email"
	KindForbidden          ErrorKind = "forbidden"
	KindNotFound           ErrorKind = "not_found"
	KindRateLimited        ErrorKind = "rate_limited"
	KindServer             ErrorKind = "server"
	KindNetwork            ErrorKind = "network"
)

// Error is a failed API call. Message is the server's message verbatim.
type Error struct {
	Status  int
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return string(e.Kind)
}

// KindOf returns the kind of err, or KindServer for errors that did not come
// from the API
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode}

	data, err := io.ReadAll(resp.Body)
	if err == nil && len(data) > 0 {
		var payload httputil.ErrorResponse
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = strings.TrimSpace(payload.Error)
			apiErr.Code = payload.Code
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
	}

	apiErr.Kind = kindFor(resp.StatusCode, apiErr.Code)
	return apiErr
}

func kindFor(status int, code string) ErrorKind {
	switch code {
	case httputil.CodeValidation, httputil.CodeInvalidRequestBody, httputil.CodeEmailRequired,
		httputil.CodePasswordRequired, httputil.CodePasswordTooLong, httputil.CodeInvalidEmailFormat:
		return KindValidation
	case httputil.CodeEmailAlreadyExists:
		return KindDuplicateEmail
	case httputil.CodeInvalidCredentials:
		return KindInvalidCredentials
	case httputil.CodeMissingAuth, httputil.CodeInvalidAuthHeader, httputil.CodeInvalidToken, httputil.CodeTokenExpired:
		return KindUnauthenticated
	case httputil.CodeForbidden:
		return KindForbidden
	case httputil.CodeNotFound:
		return KindNotFound
	case httputil.CodeTooManyRequests:
		return KindRateLimited
	}

	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindServer
	}
}
