package migrations

import "embed"

// FS embeds the SQL migrations of the swipe ledger.
//
//go:embed *.sql
var FS embed.FS
