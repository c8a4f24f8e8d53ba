package data

import (
	"database/sql"
	"embed"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// DataFileName is the default name of the sqlite catalog file.
const DataFileName string = "data.db"

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")
)

// Init creates the database file and schema if it does not exist yet.
// Safe to call on every start.
func Init(dbFilePath string) error {
	if dbFilePath == "" {
		return errors.New("dbFilePath not specified")
	}

	if _, err := os.Stat(dbFilePath); errors.Is(err, os.ErrNotExist) {
		db, err := GetDB(dbFilePath)
		if err != nil {
			return errors.Wrapf(err, "error opening database: %s", dbFilePath)
		}
		defer db.Close()

		slog.Debug("creating db schema", "path", dbFilePath)
		b, err := f.ReadFile("sql/ddl.sql")
		if err != nil {
			return errors.Wrap(err, "failed to read the schema creation file")
		}
		if _, err := db.Exec(string(b)); err != nil {
			return errors.Wrapf(err, "failed to create database schema in: %s", dbFilePath)
		}
		slog.Debug("db schema created")
	}

	return nil
}

// GetDB opens the sqlite database at the given path.
func GetDB(dbFilePath string) (*sql.DB, error) {
	if dbFilePath == "" {
		return nil, errors.New("dbFilePath not specified")
	}

	db, err := sql.Open("sqlite", dbFilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", dbFilePath)
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrapf(err, "failed to ping database: %s", dbFilePath)
	}

	return db, nil
}

// Contains reports whether the list includes the given value.
func Contains[T comparable](list []T, val T) bool {
	for _, v := range list {
		if v == val {
			return true
		}
	}
	return false
}
