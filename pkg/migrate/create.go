package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)
)

// CreateSQLMigration creates a pair of goose SQL migration files sharing one version:
//
//	<dir>/<YYYYMMDDHHMMSS>_<name>.sql
//	<dir>/sqlite/<YYYYMMDDHHMMSS>_<name>.sql
//
// It returns both paths, Postgres first.
func CreateSQLMigration(dir string, name string) ([]string, error) {
	return createSQLMigrationAt(dir, name, time.Now().UTC())
}

func createSQLMigrationAt(dir, name string, now time.Time) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	safe, err := sanitizeName(name)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s_%s.sql", now.Format("20060102150405"), safe)
	targets := []string{
		filepath.Join(dir, filename),
		filepath.Join(DirFor(dir, DialectSQLite), filename),
	}

	// fail before writing anything if either file exists
	for _, path := range targets {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("migration already exists: %s", path)
		}
	}

	template := fmt.Sprintf(`-- +goose Up
-- +goose StatementBegin
-- %s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %s
-- +goose StatementEnd
`, safe, safe)

	for _, path := range targets {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
			return nil, fmt.Errorf("write migration %q: %w", path, err)
		}
	}
	return targets, nil
}

func sanitizeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	return safe, nil
}
