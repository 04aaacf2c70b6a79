// Package dataset builds SQLite files shaped like the Hawaii climate dataset.
// Scripts are embedded and named with a 4-digit prefix for order:
// 0001_schema.sql creates the tables, later scripts add sample rows.
package dataset

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed sql/*.sql
var sqlFS embed.FS

const (
	scriptsDir    = "sql"
	schemaVersion = "0001"
)

var scriptFileRe = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

type Script struct {
	Version string
	Name    string
	Body    string
}

// Scripts returns the embedded scripts ordered by version. With sample=false
// only the schema script is returned.
func Scripts(sample bool) ([]Script, error) {
	entries, err := fs.ReadDir(sqlFS, scriptsDir)
	if err != nil {
		return nil, fmt.Errorf("read scripts dir: %w", err)
	}

	var out []Script
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, ok := parseScriptFilename(e.Name())
		if !ok {
			continue
		}
		if !sample && version != schemaVersion {
			continue
		}
		body, err := fs.ReadFile(sqlFS, scriptsDir+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("read script %s: %w", e.Name(), err)
		}
		out = append(out, Script{Version: version, Name: name, Body: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// SQL returns the scripts concatenated, suitable for piping into the sqlite3 CLI.
func SQL(sample bool) (string, error) {
	scripts, err := Scripts(sample)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, s := range scripts {
		fmt.Fprintf(&b, "-- %s_%s\n%s\n", s.Version, s.Name, s.Body)
	}
	return b.String(), nil
}

// Apply runs each script on db in order. db must be a plain sqlite3 handle:
// scripts hold several statements and rely on the driver's multi-statement Exec.
func Apply(db *sql.DB, scripts []Script) error {
	for _, s := range scripts {
		if _, err := db.Exec(s.Body); err != nil {
			return fmt.Errorf("apply %s_%s.sql: %w", s.Version, s.Name, err)
		}
	}
	return nil
}

// Create writes a new dataset file at path. The handle is closed on return.
func Create(path string, sample bool) error {
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	scripts, err := Scripts(sample)
	if err != nil {
		return err
	}
	return Apply(db, scripts)
}

func parseScriptFilename(filename string) (version, name string, ok bool) {
	m := scriptFileRe.FindStringSubmatch(filename)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
