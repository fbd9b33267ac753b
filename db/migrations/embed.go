// Package migrations embeds the schema for every supported store driver.
// Each driver has its own directory of golang-migrate files.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
