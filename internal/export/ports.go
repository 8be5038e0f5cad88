package export

import (
	"context"

	"bilancio/internal/core"
)

// Ports for outbound export adapters.
type (
	// RowWriter appends one transaction to the export destination and
	// returns an opaque reference to the written row.
	RowWriter interface {
		AppendTransaction(ctx context.Context, tx core.Transaction, categoryName string) (rowRef string, err error)
	}

	// TombstoneWriter records that a transaction was deleted locally.
	// The export sheet is append-only, so deletions become tombstone
	// rows rather than removed rows.
	TombstoneWriter interface {
		AppendTombstone(ctx context.Context, transactionID int64) (rowRef string, err error)
	}
)
