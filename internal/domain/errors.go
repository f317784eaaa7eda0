package domain

import "errors"

// Domain errors
var (
	// Team errors
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamLocked       = errors.New("team is finalized and locked")
	ErrDuplicatePlayer  = errors.New("player already in team")
	ErrRosterFull       = errors.New("roster already has maximum players")
	ErrIncompleteRoster = errors.New("roster is incomplete")

	// Validator errors
	ErrWrongRosterSize  = errors.New("wrong roster size")
	ErrDuplicatePlayers = errors.New("duplicate players in roster")
	ErrNegativeBalance  = errors.New("negative balance")

	// Balance errors
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Catalog errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidRole    = errors.New("invalid player role")

	// Identity errors
	ErrUnauthorized    = errors.New("caller is not allowed to perform this operation")
	ErrMissingIdentity = errors.New("caller identity is missing")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")

	// General errors
	ErrInvalidName   = errors.New("invalid team name")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternalError = errors.New("internal server error")
	ErrDatabaseError = errors.New("database error")
)

// ErrorCode represents API error codes
type ErrorCode string

const (
	CodeTeamLocked          ErrorCode = "TEAM_LOCKED"
	CodeDuplicatePlayer     ErrorCode = "DUPLICATE_PLAYER"
	CodeRosterFull          ErrorCode = "ROSTER_FULL"
	CodeIncompleteRoster    ErrorCode = "INCOMPLETE_ROSTER"
	CodeWrongRosterSize     ErrorCode = "WRONG_ROSTER_SIZE"
	CodeDuplicatePlayers    ErrorCode = "DUPLICATE_PLAYERS"
	CodeNegativeBalance     ErrorCode = "NEGATIVE_BALANCE"
	CodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeMissingIdentity     ErrorCode = "MISSING_IDENTITY"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeBadRequest          ErrorCode = "BAD_REQUEST"
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

// APIError represents a structured error response
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Error implements error interface
func (e *APIError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code ErrorCode, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// ToAPIError converts domain errors to API errors
func ToAPIError(err error) *APIError {
	switch {
	case errors.Is(err, ErrTeamLocked):
		return NewAPIError(CodeTeamLocked, err.Error())
	case errors.Is(err, ErrDuplicatePlayer):
		return NewAPIError(CodeDuplicatePlayer, err.Error())
	case errors.Is(err, ErrRosterFull):
		return NewAPIError(CodeRosterFull, err.Error())
	case errors.Is(err, ErrIncompleteRoster):
		return NewAPIError(CodeIncompleteRoster, err.Error())
	case errors.Is(err, ErrWrongRosterSize):
		return NewAPIError(CodeWrongRosterSize, err.Error())
	case errors.Is(err, ErrDuplicatePlayers):
		return NewAPIError(CodeDuplicatePlayers, err.Error())
	case errors.Is(err, ErrNegativeBalance):
		return NewAPIError(CodeNegativeBalance, err.Error())
	case errors.Is(err, ErrInsufficientBalance):
		return NewAPIError(CodeInsufficientBalance, err.Error())
	case errors.Is(err, ErrUnauthorized):
		return NewAPIError(CodeUnauthorized, err.Error())
	case errors.Is(err, ErrMissingIdentity):
		return NewAPIError(CodeMissingIdentity, err.Error())
	case errors.Is(err, ErrTeamNotFound), errors.Is(err, ErrPlayerNotFound), errors.Is(err, ErrProfileNotFound):
		return NewAPIError(CodeNotFound, err.Error())
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidRole):
		return NewAPIError(CodeBadRequest, err.Error())
	case errors.Is(err, ErrDatabaseError), errors.Is(err, ErrInternalError):
		// Не протекаем детали инфраструктурных ошибок наружу
		return NewAPIError(CodeInternalError, ErrInternalError.Error())
	default:
		return NewAPIError(CodeInternalError, ErrInternalError.Error())
	}
}
