// Package migrations embeds the scan journal schema into the binary.
package migrations

import (
	"embed"

	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.Migrations = migrationsFS
}
