package model

import "errors"

var (
	ErrRateLimitReached = errors.New("RATE_LIMIT_REACHED")
	ErrRateLimiter      = errors.New("RATE_LIMITER_ERROR")
	ErrInvalidData      = errors.New("INVALID_DATA_FOUND")
	ErrFetch            = errors.New("FETCH_ERROR")
	ErrNoRepositories   = errors.New("NO_REPOSITORIES_FOUND")
	ErrInvalidConfig    = errors.New("INVALID_CONFIGURATION")
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewAPIError(errReason error) APIError {
	switch {
	case errors.Is(errReason, ErrRateLimitReached):
		return APIError{
			Code:    ErrRateLimitReached.Error(),
			Message: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again",
		}

	case errors.Is(errReason, ErrNoRepositories):
		return APIError{
			Code:    ErrNoRepositories.Error(),
			Message: "no repositories stored for this organisation. refresh the repositories first",
		}

	case errors.Is(errReason, ErrInvalidConfig):
		return APIError{
			Code:    ErrInvalidConfig.Error(),
			Message: errReason.Error(),
		}

	case errors.Is(errReason, ErrRateLimiter), errors.Is(errReason, ErrInvalidData), errors.Is(errReason, ErrFetch):
		return APIError{
			Code:    rootCode(errReason),
			Message: "internal server error. contact our support with the reason code for assistance",
		}
	}

	return APIError{
		Code:    "GENERIC_ERROR",
		Message: "internal server error. contact our support with the reason code for assistance",
	}
}

func rootCode(err error) string {
	for _, sentinel := range []error{ErrRateLimiter, ErrInvalidData, ErrFetch} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	return err.Error()
}
