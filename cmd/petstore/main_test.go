package main

import (
	"testing"

	"petstore/internal/repos"
)

func TestRunMigrate(t *testing.T) {
	db, err := repos.OpenDB("file:cmd_migrate?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := runMigrate(db, "sideways"); err == nil {
		t.Fatal("unknown direction accepted")
	}

	if err := runMigrate(db, "down"); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	var tables int
	if err := db.Get(&tables, `
	  SELECT COUNT(*) FROM sqlite_master
	  WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations'
	`); err != nil {
		t.Fatal(err)
	}
	if tables != 0 {
		t.Fatalf("%d tables survived migrate down", tables)
	}

	if err := repos.MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := runMigrate(db, "up"); err != nil {
		t.Fatalf("migrate up direction: %v", err)
	}
}
