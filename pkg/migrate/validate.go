package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
)

// ValidateDir checks migration filenames and goose headers in dir and, when a sqlite
// subdirectory exists, that both dialects carry the same set of versions.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	versions, err := collectVersions(dir)
	if err != nil {
		return err
	}

	sqliteDir := DirFor(dir, DialectSQLite)
	if _, err := os.Stat(sqliteDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	sqliteVersions, err := collectVersions(sqliteDir)
	if err != nil {
		return err
	}

	var missing []string
	for version, name := range versions {
		if _, ok := sqliteVersions[version]; !ok {
			missing = append(missing, name)
		}
	}
	for version, name := range sqliteVersions {
		if _, ok := versions[version]; !ok {
			missing = append(missing, filepath.Join("sqlite", name))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("migrations without a counterpart in the other dialect: %s", strings.Join(missing, ", "))
	}
	return nil
}

// collectVersions returns version -> filename for every .sql file in dir.
func collectVersions(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", full, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
	}
	return seen, nil
}
