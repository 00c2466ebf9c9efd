package domain

import "errors"

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnknownSymbol        = errors.New("unknown symbol")
	// ErrNotFound on a wallet means the user row exists without its wallet,
	// which registration never produces.
	ErrNotFound = errors.New("not found")
)
