package sqlite

import "github.com/felixgeelhaar/matchme/internal/match"

// Ensure SQLite stores implement the storage interfaces.
var _ match.Ledger = (*SwipeLedger)(nil)
