// Package migrations carries the SQL schema files compiled into the
// binary, so the runner never depends on the working directory.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
