// Package repository declares the storage contract for helper records.
// Implementations live in the xlsx and sqlite subpackages.
package repository

import (
	"context"

	"github.com/Riddhikharpe/house-helpers/internal/model"
)

// HelperRepository is the table store. Every method returns an
// *apperror.AppError of kind ErrStorage when the backing file or database
// cannot be read or written.
type HelperRepository interface {
	// Initialize creates an empty table if none exists. Safe to call on
	// every start.
	Initialize(ctx context.Context) error
	// Append adds one row after the existing ones.
	Append(ctx context.Context, record *model.HelperRecord) error
	// QueryAll returns every row in insertion order.
	QueryAll(ctx context.Context) ([]model.HelperRecord, error)
	// Export returns the table as spreadsheet bytes.
	Export(ctx context.Context) ([]byte, error)
	// Filename is the name the exported spreadsheet is offered under.
	Filename() string
}
