// Package migrations embeds the journal schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
