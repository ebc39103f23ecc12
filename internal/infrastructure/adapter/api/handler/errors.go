package handler

import (
	"errors"
	"net/http"

	domainerr "github.com/amirhossein-jamali/rampbot/internal/domain/error"
)

// httpStatus maps domain errors to HTTP status codes
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrNegativeAmount),
		errors.Is(err, domainerr.ErrInvalidUserID),
		errors.Is(err, domainerr.ErrInvalidReference),
		errors.Is(err, domainerr.ErrInvalidType),
		errors.Is(err, domainerr.ErrInvalidAsset),
		errors.Is(err, domainerr.ErrInvalidStatus),
		errors.Is(err, domainerr.ErrUnsupportedChain),
		errors.Is(err, domainerr.ErrUnknownToken),
		errors.Is(err, domainerr.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domainerr.ErrDuplicateReference),
		errors.Is(err, domainerr.ErrReferenceLocked):
		return http.StatusConflict
	case errors.Is(err, domainerr.ErrUnauthorized),
		errors.Is(err, domainerr.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, domainerr.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal details behind 5xx responses
func publicMessage(status int, err error) string {
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		return "Internal server error"
	}
	if status == http.StatusBadGateway {
		return "Upstream service unavailable"
	}
	return err.Error()
}
