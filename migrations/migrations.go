// Package migrations embeds the SQL schema of the activity log.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
