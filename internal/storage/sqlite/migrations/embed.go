// Package migrations embeds the analytics archive schema files.
package migrations

import "embed"

// FS holds the archive migration files.
//
//go:embed *.sql
var FS embed.FS
