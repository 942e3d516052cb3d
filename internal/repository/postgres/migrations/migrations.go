// Package migrations embeds the goose SQL migrations for the username registry.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
