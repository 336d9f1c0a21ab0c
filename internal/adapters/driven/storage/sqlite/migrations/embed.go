// Package migrations carries the SQLite schema migrations. Files are
// named NNN_description.up.sql and applied in order at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
