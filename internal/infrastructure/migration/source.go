package migration

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// SourceDir is where migration files live, relative to this package
const SourceDir = "sql"

//go:embed sql/*.sql
var files embed.FS

// Files returns the embedded migration files rooted at SourceDir
func Files() fs.FS {
	sub, err := fs.Sub(files, SourceDir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Source returns a golang-migrate source over the embedded files
func Source() (source.Driver, error) {
	d, err := iofs.New(files, SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return d, nil
}

// List returns the base names of the up migrations in fsys, sorted
func List(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names, nil
}
