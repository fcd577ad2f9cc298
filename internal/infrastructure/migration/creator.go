package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const migrationUpTemplate = `-- {{.Name}} ({{.Driver}})
-- Created: {{.Timestamp}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`

const migrationDownTemplate = `-- {{.Name}} ({{.Driver}}) rollback
-- Created: {{.Timestamp}}

`

// MigrationFile is one generated up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Driver      string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down pair for every driver in Drivers,
// numbered one past the highest version found in any of them.
func CreateMigration(migrationsBase, name, description string) ([]MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	next := 1
	for _, driver := range Drivers {
		v, err := highestVersion(Dir(migrationsBase, driver))
		if err != nil {
			return nil, err
		}
		next = max(next, v+1)
	}
	version := fmt.Sprintf("%06d", next)
	timestamp := time.Now().UTC().Format(time.RFC3339)

	files := make([]MigrationFile, 0, len(Drivers))
	for _, driver := range Drivers {
		dir := Dir(migrationsBase, driver)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}

		stem := version + "_" + base
		mf := MigrationFile{
			Version:     version,
			Name:        name,
			Driver:      driver,
			Description: description,
			Timestamp:   timestamp,
			UpPath:      filepath.Join(dir, stem+".up.sql"),
			DownPath:    filepath.Join(dir, stem+".down.sql"),
		}
		if err := writeTemplate(mf.UpPath, migrationUpTemplate, mf); err != nil {
			return nil, err
		}
		if err := writeTemplate(mf.DownPath, migrationDownTemplate, mf); err != nil {
			_ = os.Remove(mf.UpPath)
			return nil, err
		}
		files = append(files, mf)
	}
	return files, nil
}

func writeTemplate(path, tmplContent string, data MigrationFile) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}

func highestVersion(dir string) (int, error) {
	names, err := ListMigrations(dir)
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, n := range names {
		prefix, _, _ := strings.Cut(n, "_")
		if v, err := strconv.Atoi(prefix); err == nil {
			highest = max(highest, v)
		}
	}
	return highest, nil
}

// sanitizeName lower-cases name and folds separators into single underscores.
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the sorted migration stems in dir. A missing
// directory yields an empty list.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if stem, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, stem)
		}
	}
	slices.Sort(migrations)
	return migrations, nil
}
