// Package store holds the GORM-backed repositories. The wallet, holding and
// ledger stores can be bound to a transaction with WithTx so the trade
// executor composes their writes into one all-or-nothing unit.
package store

import (
	"finance_sandbox/internal/domain" // Domain errors

	"github.com/pkg/errors" // Error wrapping
	"gorm.io/gorm"          // GORM ORM library
)

// Pagination defaults shared by every list endpoint
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page selects one page of a list, numbered from 1
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size into the accepted ranges
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows skipped before this page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages is the page count for total rows
func (p Page) TotalPages(total int64) int {
	if p.Size <= 0 {
		return 0
	}
	return (int(total) + p.Size - 1) / p.Size
}

// wrap maps gorm.ErrRecordNotFound to domain.ErrNotFound and annotates everything else
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(domain.ErrNotFound, msg)
	}
	return errors.Wrap(err, msg)
}
