package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema change; files register themselves by name.
var Migrations = migrate.NewMigrations()
