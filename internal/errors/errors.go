package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies failures the transport layer knows how to map onto a
// status code. Anything else is treated as an internal error.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindAccessDenied
	KindNotFound
	KindInvalidOperation
)

// Error is a domain error carrying a transport-mappable kind. Services
// return these; handlers hand them to Respond.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// Unauthenticated means no principal could be resolved for an operation
// that requires one.
func Unauthenticated(detail string) *Error {
	return &Error{Kind: KindUnauthenticated, Detail: detail}
}

// AccessDenied means the principal is authenticated but policy denies
// the operation on the target resource.
func AccessDenied(detail string) *Error {
	return &Error{Kind: KindAccessDenied, Detail: detail}
}

func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

// InvalidOperation means the request is semantically invalid given the
// current state (duplicate email, self-deletion, oversized upload).
func InvalidOperation(detail string) *Error {
	return &Error{Kind: KindInvalidOperation, Detail: detail}
}

// KindOf extracts the kind from an error chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func statusFor(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAccessDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidOperation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the error response for a service failure. Unclassified
// errors leak nothing beyond a generic detail message.
func Respond(c *gin.Context, err error) {
	var e *Error
	if stderrors.As(err, &e) {
		c.JSON(statusFor(e.Kind), gin.H{"detail": e.Detail})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "An internal server error occurred"})
}

// BadRequest writes a 400 with the given detail.
func BadRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}

// ValidationFailed writes a 400 with per-field binding errors.
func ValidationFailed(c *gin.Context, errs any) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": "Validation failed", "errors": errs})
}

// Internal writes a 500 with the given detail.
func Internal(c *gin.Context, detail string) {
	c.JSON(http.StatusInternalServerError, gin.H{"detail": detail})
}
