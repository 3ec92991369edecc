package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/storage"
)

// Store implements storage.Store using SQLite
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// NewStore opens the database at dbPath and applies the schema
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Ping checks that the database is reachable
func (s *Store) Ping() error {
	return s.db.Ping()
}

// SaveSnapshot stores the snapshot under key, replacing any previous one
func (s *Store) SaveSnapshot(key string, snap *calculator.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshots (key, payload_json)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload_json = excluded.payload_json,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.Exec(query, key, string(payload)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot returns the snapshot stored under key, or nil if none
func (s *Store) LoadSnapshot(key string) (*calculator.Snapshot, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload_json FROM snapshots WHERE key = ?", key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap calculator.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snap, nil
}

// RecordCalculation appends a calculation to the audit trail and sets its ID
func (s *Store) RecordCalculation(rec *storage.CalculationRecord) error {
	query := `
		INSERT INTO calculations (calculator, method, value, error, text, inputs_json, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var value sql.NullFloat64
	if rec.Value != nil {
		value = sql.NullFloat64{Float64: *rec.Value, Valid: true}
	}

	res, err := s.db.Exec(query,
		rec.Calculator,
		rec.Method,
		value,
		rec.Error,
		rec.Text,
		string(rec.Inputs),
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record calculation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read calculation id: %w", err)
	}
	rec.ID = id

	return nil
}

// QueryCalculations retrieves calculation records with optional filtering
func (s *Store) QueryCalculations(filter storage.CalculationFilter) ([]storage.CalculationRecord, error) {
	query := `
		SELECT id, calculator, method, value, error, text, inputs_json, timestamp, created_at
		FROM calculations
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Calculator != "" {
		query += " AND calculator = ?"
		args = append(args, filter.Calculator)
	}

	if filter.Method != "" {
		query += " AND method = ?"
		args = append(args, filter.Method)
	}

	if filter.StartTime != nil {
		query += " AND timestamp >= ?"
		args = append(args, *filter.StartTime)
	}

	if filter.EndTime != nil {
		query += " AND timestamp <= ?"
		args = append(args, *filter.EndTime)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = storage.DefaultQueryLimit
	}
	query += " LIMIT ?"
	args = append(args, limit)

	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer rows.Close()

	var records []storage.CalculationRecord
	for rows.Next() {
		var rec storage.CalculationRecord
		var value sql.NullFloat64
		var inputs string

		err := rows.Scan(
			&rec.ID,
			&rec.Calculator,
			&rec.Method,
			&value,
			&rec.Error,
			&rec.Text,
			&inputs,
			&rec.Timestamp,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		if value.Valid {
			v := value.Float64
			rec.Value = &v
		}
		if inputs != "" {
			rec.Inputs = json.RawMessage(inputs)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
