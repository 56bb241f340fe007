package property

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iwvelando/deal-calculator/pkg/datetime"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS properties (
	id                 TEXT PRIMARY KEY,
	created_at         INTEGER NOT NULL,
	updated_at         INTEGER NOT NULL,
	listing_url        TEXT NOT NULL DEFAULT '',
	address            TEXT NOT NULL DEFAULT '',
	town               TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL,
	is_auction         INTEGER NOT NULL DEFAULT 0,
	auction_date       INTEGER,
	viewing_dates      TEXT,
	void_period_months INTEGER,
	notes              TEXT NOT NULL DEFAULT '',
	inputs             TEXT NOT NULL,
	summary            TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_properties_created_at ON properties (created_at DESC);
`

const propertyColumns = `id, created_at, updated_at, listing_url, address, town, status,
	is_auction, auction_date, viewing_dates, void_period_months, notes, inputs, summary`

// addedColumns are applied to databases created before the column existed.
var addedColumns = []struct {
	name, definition string
}{
	{"viewing_dates", "TEXT"},
	{"void_period_months", "INTEGER"},
}

// SQLiteStore persists properties in a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the schema. Use ":memory:" for a throwaway database.
func NewSQLiteStore(logger *zap.Logger, path string) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	if err := migrate(db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("opened property database",
		zap.String("op", "property.NewSQLiteStore"),
		zap.String("path", path),
	)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, p Property) error {
	args, err := propertyArgs(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO properties (`+propertyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Property, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Property{}, ErrNotFound
	}
	if err != nil {
		return Property{}, fmt.Errorf("failed to load property %s: %w", id, err)
	}
	return p, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Property, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+propertyColumns+` FROM properties
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows",
				zap.String("op", "property.SQLiteStore.List"),
				zap.Error(closeErr),
			)
		}
	}()

	out := []Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Update(ctx context.Context, p Property) error {
	args, err := propertyArgs(p)
	if err != nil {
		return err
	}
	// id moves from the front to the WHERE clause.
	args = append(args[1:], args[0])
	res, err := s.db.ExecContext(ctx, `UPDATE properties SET
		created_at = ?, updated_at = ?, listing_url = ?, address = ?, town = ?, status = ?,
		is_auction = ?, auction_date = ?, viewing_dates = ?, void_period_months = ?,
		notes = ?, inputs = ?, summary = ?
		WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return expectOneRow(res)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return expectOneRow(res)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB, logger *zap.Logger) error {
	rows, err := db.Query(`SELECT name FROM pragma_table_info('properties')`)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to read schema: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	for _, col := range addedColumns {
		if existing[col.name] {
			continue
		}
		if _, err := db.Exec(`ALTER TABLE properties ADD COLUMN ` + col.name + ` ` + col.definition); err != nil {
			return fmt.Errorf("failed to add column %s: %w", col.name, err)
		}
		logger.Info("added property column",
			zap.String("op", "property.migrate"),
			zap.String("column", col.name),
		)
	}
	return nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func propertyArgs(p Property) ([]any, error) {
	inputs, err := json.Marshal(p.Inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode inputs: %w", err)
	}
	summary, err := json.Marshal(p.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}

	var auctionDate sql.NullInt64
	if p.AuctionDate != nil {
		auctionDate = sql.NullInt64{Int64: p.AuctionDate.UnixNano(), Valid: true}
	}
	var viewings sql.NullString
	if len(p.ViewingDates) > 0 {
		data, err := json.Marshal(p.ViewingDates)
		if err != nil {
			return nil, fmt.Errorf("failed to encode viewing dates: %w", err)
		}
		viewings = sql.NullString{String: string(data), Valid: true}
	}
	var voidPeriod sql.NullInt64
	if p.VoidPeriodMonths != nil {
		voidPeriod = sql.NullInt64{Int64: int64(*p.VoidPeriodMonths), Valid: true}
	}

	return []any{
		p.ID,
		p.CreatedAt.UnixNano(),
		p.UpdatedAt.UnixNano(),
		p.ListingURL,
		p.Address,
		p.Town,
		p.Status,
		p.IsAuction,
		auctionDate,
		viewings,
		voidPeriod,
		p.Notes,
		string(inputs),
		string(summary),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (Property, error) {
	var (
		p                    Property
		createdAt, updatedAt int64
		auctionDate          sql.NullInt64
		viewings             sql.NullString
		voidPeriod           sql.NullInt64
		inputs, summary      string
	)
	err := row.Scan(&p.ID, &createdAt, &updatedAt, &p.ListingURL, &p.Address, &p.Town,
		&p.Status, &p.IsAuction, &auctionDate, &viewings, &voidPeriod, &p.Notes, &inputs, &summary)
	if err != nil {
		return Property{}, err
	}

	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	if auctionDate.Valid {
		d := datetime.NewDate(time.Unix(0, auctionDate.Int64).UTC())
		p.AuctionDate = &d
	}
	if viewings.Valid && viewings.String != "" {
		if err := json.Unmarshal([]byte(viewings.String), &p.ViewingDates); err != nil {
			return Property{}, fmt.Errorf("failed to decode viewing dates: %w", err)
		}
	}
	if voidPeriod.Valid {
		months := int(voidPeriod.Int64)
		p.VoidPeriodMonths = &months
	}
	if err := json.Unmarshal([]byte(inputs), &p.Inputs); err != nil {
		return Property{}, fmt.Errorf("failed to decode inputs: %w", err)
	}
	if err := json.Unmarshal([]byte(summary), &p.Summary); err != nil {
		return Property{}, fmt.Errorf("failed to decode summary: %w", err)
	}
	return p, nil
}
