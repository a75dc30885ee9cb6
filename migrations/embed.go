// Package migrations embeds the schema migration files so the binary can
// initialize a database without shipping loose SQL alongside it.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
