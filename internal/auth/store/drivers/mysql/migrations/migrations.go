// Package migrations embeds the mysql schema migration files.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
