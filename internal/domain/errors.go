package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInternalError = errors.New("internal error")

	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")

	ErrEmailTaken             = errors.New("user already exists")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrDuplicateAccountNumber = errors.New("account number already in use")

	ErrMissingFields          = errors.New("required fields missing")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidStatus          = errors.New("invalid transaction status")
	ErrInsufficientFunds      = errors.New("insufficient account balance")
	ErrSameAccountTransfer    = errors.New("cannot transfer to the same account")
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 255
	MaxCategoryLength    = 100
)
