// Package migrations embeds the msgstore schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
