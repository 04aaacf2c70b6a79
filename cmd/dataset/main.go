package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sharkins95/sqlalchemy-challenge/internal/dataset"
)

const usage = `usage: %s <command>
  create  write an empty dataset to $SQLITE_PATH
  sample  write a dataset with sample rows to $SQLITE_PATH
  sql     print the sample dataset script to stdout
`

func main() {
	if err := run(os.Args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf(usage, filepath.Base(args[0]))
	}

	switch args[1] {
	case "create", "sample":
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "Resources/hawaii.sqlite"
		}
		path = filepath.Clean(path)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := dataset.Create(path, args[1] == "sample"); err != nil {
			return fmt.Errorf("create: %w", err)
		}
		_, err := fmt.Fprintf(stdout, "dataset written to %s\n", path)
		return err
	case "sql":
		script, err := dataset.SQL(true)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, script)
		return err
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}
}
