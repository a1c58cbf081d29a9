// Package migrations embeds the goose SQL migrations so binaries and tests
// share one source of truth.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
