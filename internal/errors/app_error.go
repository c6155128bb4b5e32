package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInternal             = "INTERNAL_ERROR"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeThirdPartyError      = "THIRD_PARTY_ERROR"
	ErrCodeTooManyRequests      = "TOO_MANY_REQUESTS"
	ErrCodePromoCodeInvalid     = "PROMO_CODE_INVALID"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeSubmissionFailed     = "SUBMISSION_FAILED"
	ErrCodeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
	ErrCodeTimeout              = "TIMEOUT"
)

// InvalidInputError reports a programmer error such as a negative amount or a malformed line item.
func InvalidInputError(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusInternalServerError)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

// PromoCodeInvalidError is non-fatal: callers show it inline and keep checking out.
func PromoCodeInvalidError(message string) *AppError {
	return NewAppError(ErrCodePromoCodeInvalid, message, http.StatusUnprocessableEntity)
}

func InvalidTransitionError(message string) *AppError {
	return NewAppError(ErrCodeInvalidTransition, message, http.StatusConflict)
}

func SubmissionFailedError(message string) *AppError {
	return NewAppError(ErrCodeSubmissionFailed, message, http.StatusBadGateway)
}

func SubmissionInProgressError(message string) *AppError {
	return NewAppError(ErrCodeSubmissionInProgress, message, http.StatusConflict)
}

func TimeoutError(message string) *AppError {
	return NewAppError(ErrCodeTimeout, message, http.StatusGatewayTimeout)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)

	return ok && appErr.Code == code
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
