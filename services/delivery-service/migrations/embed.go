// Package migrations embeds the delivery-service schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
