package repos

import (
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"petstore/internal/repos/migrations"
)

const migrationTable = "schema_migrations"

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// MigrateUp applies every embedded migration that has not been applied yet,
// in lexical file order. Each file runs as one transaction: failure of any
// statement aborts the whole batch and leaves the ledger untouched.
func MigrateUp(db *sqlx.DB) error {
	files, err := migrationFiles()
	if err != nil {
		return err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
	    name TEXT PRIMARY KEY,
	    applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		applied, err := isApplied(db, file)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		upSQL, _, err := readSections(file)
		if err != nil {
			return err
		}

		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}

	return nil
}

// MigrateDown reverts every applied migration in reverse order, dropping
// triggers, indexes and tables children-first. It assumes the forward state
// exists exactly as MigrateUp created it.
func MigrateDown(db *sqlx.DB) error {
	files, err := migrationFiles()
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	for _, file := range files {
		applied, err := isApplied(db, file)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if !applied {
			continue
		}

		_, downSQL, err := readSections(file)
		if err != nil {
			return err
		}
		if strings.TrimSpace(downSQL) == "" {
			return fmt.Errorf("migration %s has no down section", file)
		}

		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("begin revert %s: %w", file, err)
		}
		if _, err := tx.Exec(downSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("revert migration %s: %w", file, err)
		}
		if _, err := tx.Exec(`DELETE FROM `+migrationTable+` WHERE name = ?`, file); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("unrecord migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit revert %s: %w", file, err)
		}
	}

	return nil
}

func migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func readSections(file string) (upSQL, downSQL string, err error) {
	content, err := fs.ReadFile(migrations.FS, file)
	if err != nil {
		return "", "", fmt.Errorf("read migration %s: %w", file, err)
	}
	text := string(content)

	upIdx := strings.Index(text, upMarker)
	if upIdx == -1 {
		return "", "", fmt.Errorf("migration %s has no up section", file)
	}
	downIdx := strings.Index(text, downMarker)
	if downIdx == -1 {
		return text[upIdx+len(upMarker):], "", nil
	}
	return text[upIdx+len(upMarker) : downIdx], text[downIdx+len(downMarker):], nil
}

func isApplied(db *sqlx.DB, name string) (bool, error) {
	var found int
	err := db.Get(&found, `SELECT 1 FROM `+migrationTable+` WHERE name = ?`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
