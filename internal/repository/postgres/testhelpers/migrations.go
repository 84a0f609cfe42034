package testhelpers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ResetSchema drops the schema with the .down.sql files (newest first) and
// recreates it with the .up.sql files (oldest first), all in one transaction.
// The up migrations reseed the default categories.
func ResetSchema(db *sql.DB, migrationsPath string) error {
	down, err := migrationFiles(migrationsPath, ".down.sql")
	if err != nil {
		return err
	}
	up, err := migrationFiles(migrationsPath, ".up.sql")
	if err != nil {
		return err
	}
	if len(up) == 0 {
		return fmt.Errorf("no up migrations in %s", migrationsPath)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(down)))

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema reset: %w", err)
	}
	defer tx.Rollback()

	for _, file := range append(down, up...) {
		content, err := os.ReadFile(filepath.Join(migrationsPath, file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}

	return tx.Commit()
}

func migrationFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
