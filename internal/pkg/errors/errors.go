package errors

import (
	"errors"
	"net/http"
)

// ErrorResp carries the HTTP status a domain or infrastructure failure maps
// to. Handlers unwrap it through helpers.RespError.
type ErrorResp struct {
	HttpCode int
	Message  string
}

func (e *ErrorResp) Error() string {
	return e.Message
}

func BadRequest(message string) error {
	return &ErrorResp{HttpCode: http.StatusBadRequest, Message: message}
}

func NotFound(message string) error {
	return &ErrorResp{HttpCode: http.StatusNotFound, Message: message}
}

func UnauthorizedError(message string) error {
	return &ErrorResp{HttpCode: http.StatusUnauthorized, Message: message}
}

func ForbiddenError(message string) error {
	return &ErrorResp{HttpCode: http.StatusForbidden, Message: message}
}

// UpstreamError marks a failed call to an external collaborator
// (blob storage, payment gateway). The enclosing operation aborts.
func UpstreamError(message string) error {
	return &ErrorResp{HttpCode: http.StatusBadGateway, Message: message}
}

func InternalServerError(message string) error {
	return &ErrorResp{HttpCode: http.StatusInternalServerError, Message: message}
}

// HttpCode extracts the status carried by err, defaulting to 500 for
// anything that is not an *ErrorResp.
func HttpCode(err error) int {
	var resp *ErrorResp
	if errors.As(err, &resp) {
		return resp.HttpCode
	}
	return http.StatusInternalServerError
}
