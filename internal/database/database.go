// Package database provides SQLite storage for spools and prints
package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	apperrors "remainder/internal/errors"
	"remainder/internal/models"
)

// Querier is the subset of *sql.DB and *sql.Tx used by the storage functions,
// so every function can run either directly or inside a transaction
type Querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// DB interface defines database operations for easier testing
type DB interface {
	Querier
	Begin() (*sql.Tx, error)
	Close() error
}

// sqliteDB implements the DB interface for SQLite
type sqliteDB struct {
	*sql.DB
}

const (
	spoolTableSQL = `
	CREATE TABLE spool (
		roll_id BLOB PRIMARY KEY,
		roll_name TEXT,
		roll_weight REAL,
		roll_length REAL,
		roll_timestamp INTEGER NOT NULL
	)`

	filamentTableSQL = `
	CREATE TABLE filament (
		print_id BLOB PRIMARY KEY,
		print_weight REAL,
		print_length REAL,
		print_time INTEGER,
		roll_id BLOB NOT NULL
	)`

	filamentIndexSQL = `CREATE INDEX IF NOT EXISTS idx_filament_roll_id ON filament(roll_id)`

	tableCountSQL = `SELECT count(name) FROM sqlite_master WHERE type='table' AND name=?`
)

// Initialize opens the SQLite database at dbPath and sets up the schema.
// The pool is limited to a single connection: the tool is a single writer,
// and ":memory:" databases exist per connection.
func Initialize(dbPath string) (DB, error) {
	// Creates the file if it doesn't exist
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, apperrors.Storage("failed to open database", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := &sqliteDB{sqlDB}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperrors.Storage("failed to ping database", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// createTables creates the spool and filament tables when absent
func createTables(q Querier) error {
	if _, err := ensureTable(q, "spool", spoolTableSQL); err != nil {
		return err
	}
	if _, err := ensureTable(q, "filament", filamentTableSQL); err != nil {
		return err
	}
	if _, err := q.Exec(filamentIndexSQL); err != nil {
		return apperrors.Storage("failed to create filament index", err)
	}
	return nil
}

// ensureTable creates the named table unless sqlite_master already lists it.
// Reports whether the table was created.
func ensureTable(q Querier, name, createSQL string) (bool, error) {
	var count int
	if err := q.QueryRow(tableCountSQL, name).Scan(&count); err != nil {
		return false, apperrors.Storage(fmt.Sprintf("failed to check for %s table", name), err)
	}

	exists, err := tableExists(name, count)
	if err != nil || exists {
		return false, err
	}

	if _, err := q.Exec(createSQL); err != nil {
		return false, apperrors.Storage(fmt.Sprintf("failed to create %s table", name), err)
	}
	return true, nil
}

// tableExists interprets the sqlite_master count for a table name
func tableExists(name string, count int) (bool, error) {
	switch count {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, apperrors.Newf(apperrors.CodeAmbiguousSchemaState,
			"found %d tables named %s", count, name)
	}
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func WithTx(db DB, fn func(q Querier) error) error {
	tx, err := db.Begin()
	if err != nil {
		return apperrors.Storage("failed to begin transaction", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, apperrors.Storage("failed to roll back transaction", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("failed to commit transaction", err)
	}
	return nil
}

// InsertSpool appends a spool. Both measurements must already be resolved.
func InsertSpool(q Querier, spool models.Spool) error {
	if !spool.IsResolved() {
		return apperrors.ErrIncompleteMeasurement
	}

	_, err := q.Exec(`
	INSERT INTO spool (roll_id, roll_name, roll_weight, roll_length, roll_timestamp)
	VALUES (?, ?, ?, ?, ?)`,
		spool.ID[:], spool.Name, *spool.Weight, *spool.Length, spool.CreatedAt)
	if err != nil {
		return apperrors.Storage("failed to insert spool", err)
	}
	return nil
}

// InsertPrint appends a print. Both measurements must already be resolved
// and the spool reference assigned.
func InsertPrint(q Querier, p models.Print) error {
	if !p.IsResolved() {
		return apperrors.ErrIncompleteMeasurement
	}
	if p.SpoolID == uuid.Nil {
		return apperrors.New(apperrors.CodeInvalidInput, "print has no spool assigned")
	}

	_, err := q.Exec(`
	INSERT INTO filament (print_id, print_weight, print_length, print_time, roll_id)
	VALUES (?, ?, ?, ?, ?)`,
		p.ID[:], *p.Weight, *p.Length, p.Duration, p.SpoolID[:])
	if err != nil {
		return apperrors.Storage("failed to insert print", err)
	}
	return nil
}

const selectSpoolSQL = `
	SELECT roll_id, roll_name, roll_weight, roll_length, roll_timestamp
	FROM spool
	ORDER BY roll_timestamp DESC, rowid DESC`

// CurrentSpool returns the active spool: the one with the latest
// roll_timestamp. Spools sharing that timestamp are ordered by insertion,
// so the last one inserted wins.
func CurrentSpool(q Querier) (models.Spool, error) {
	spool, err := scanSpool(q.QueryRow(selectSpoolSQL + " LIMIT 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Spool{}, apperrors.ErrNoActiveSpool
	}
	if err != nil {
		return models.Spool{}, apperrors.Storage("failed to select current spool", err)
	}
	return spool, nil
}

// ListSpools returns every spool, most recent first, in the same order
// CurrentSpool uses
func ListSpools(q Querier) ([]models.Spool, error) {
	rows, err := q.Query(selectSpoolSQL)
	if err != nil {
		return nil, apperrors.Storage("failed to list spools", err)
	}
	defer rows.Close()

	var spools []models.Spool
	for rows.Next() {
		spool, err := scanSpool(rows)
		if err != nil {
			return nil, apperrors.Storage("failed to scan spool", err)
		}
		spools = append(spools, spool)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("error during spool iteration", err)
	}
	return spools, nil
}

// SpoolUsage sums the prints recorded against one spool.
// A spool without prints yields a zero Usage.
func SpoolUsage(q Querier, spoolID uuid.UUID) (models.Usage, error) {
	var usage models.Usage
	err := q.QueryRow(`
	SELECT COALESCE(SUM(print_weight), 0), COALESCE(SUM(print_length), 0),
		COALESCE(SUM(print_time), 0), COUNT(*)
	FROM filament WHERE roll_id = ?`, spoolID[:]).
		Scan(&usage.Weight, &usage.Length, &usage.Duration, &usage.Prints)
	if err != nil {
		return models.Usage{}, apperrors.Storage("failed to sum spool usage", err)
	}
	return usage, nil
}

// TotalUsage sums every print ever recorded, regardless of spool
func TotalUsage(q Querier) (models.Usage, error) {
	var usage models.Usage
	err := q.QueryRow(`
	SELECT COALESCE(SUM(print_weight), 0), COALESCE(SUM(print_length), 0),
		COALESCE(SUM(print_time), 0), COUNT(*)
	FROM filament`).
		Scan(&usage.Weight, &usage.Length, &usage.Duration, &usage.Prints)
	if err != nil {
		return models.Usage{}, apperrors.Storage("failed to sum lifetime usage", err)
	}
	return usage, nil
}

// CountSpools returns the number of spools ever created
func CountSpools(q Querier) (int64, error) {
	var count int64
	if err := q.QueryRow(`SELECT COUNT(*) FROM spool`).Scan(&count); err != nil {
		return 0, apperrors.Storage("failed to count spools", err)
	}
	return count, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSpool(row rowScanner) (models.Spool, error) {
	var (
		spool  models.Spool
		name   sql.NullString
		weight sql.NullFloat64
		length sql.NullFloat64
	)
	if err := row.Scan(&spool.ID, &name, &weight, &length, &spool.CreatedAt); err != nil {
		return models.Spool{}, err
	}

	spool.Name = name.String
	if weight.Valid {
		spool.Weight = models.Float(weight.Float64)
	}
	if length.Valid {
		spool.Length = models.Float(length.Float64)
	}
	return spool, nil
}
