// Package store persists flattened card printings and vocabularies in a
// libsql database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/go-libsql"

	"github.com/xremming/cardprep/cardprep/cards"
	"github.com/xremming/cardprep/cardprep/vocab"
)

// Store wraps one libsql connection with the card and vocab tables.
type Store struct {
	db *sql.DB
}

// Open connects to the database at dsn and creates the schema if needed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// init sets up the card and vocab tables.
func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS cards (
		oracle_id TEXT NOT NULL,
		name TEXT NOT NULL,
		set_code TEXT NOT NULL,
		layout TEXT NOT NULL,
		frame TEXT NOT NULL,
		kind TEXT NOT NULL,
		type1 TEXT NOT NULL,
		type2 TEXT NOT NULL,
		colors TEXT NOT NULL,
		image_url TEXT NOT NULL,
		image_filename TEXT NOT NULL,
		time_stamp DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create cards table: %w", err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS vocabularies (
		name TEXT NOT NULL,
		token_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		PRIMARY KEY (name, token_id)
	)`)
	if err != nil {
		return fmt.Errorf("failed to create vocabularies table: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_cards_set ON cards (set_code)`)
	if err != nil {
		return fmt.Errorf("failed to create set index: %w", err)
	}
	return nil
}

// InsertCards writes printings in one transaction. Printings that fail to
// classify abort the batch.
func (s *Store) InsertCards(ctx context.Context, printings []cards.PhysicalCard) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cards
		(oracle_id, name, set_code, layout, frame, kind, type1, type2, colors, image_url, image_filename)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range printings {
		p := &printings[i]
		type1, type2, err := p.ParsedTypeLine()
		if err != nil {
			return fmt.Errorf("failed to parse type line for %q: %w", p.Name, err)
		}
		kind, err := p.Kind(type1)
		if err != nil {
			return fmt.Errorf("failed to classify %q: %w", p.Name, err)
		}
		_, err = stmt.ExecContext(ctx,
			p.OracleID.String(), p.Name, p.SetCode, string(p.Layout), string(p.Frame),
			string(kind), type1, type2, p.ParsedColors(), p.ImageURIs.Small, p.PreferredFilename())
		if err != nil {
			return fmt.Errorf("failed to insert card %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cards: %w", err)
	}
	slog.Debug("inserted cards", "count", len(printings))
	return nil
}

// StoredCard is one flattened card row as persisted.
type StoredCard struct {
	OracleID      uuid.UUID
	Name          string
	SetCode       string
	Layout        string
	Frame         string
	Kind          string
	Type1         string
	Type2         string
	Colors        string
	ImageURL      string
	ImageFilename string
}

// CardsBySet returns every stored printing of one set.
func (s *Store) CardsBySet(ctx context.Context, setCode string) ([]StoredCard, error) {
	return s.queryCards(ctx, "set_code = ?", setCode)
}

// CardsByKind returns every stored printing of one physical kind.
func (s *Store) CardsByKind(ctx context.Context, kind cards.PhysicalKind) ([]StoredCard, error) {
	return s.queryCards(ctx, "kind = ?", string(kind))
}

func (s *Store) queryCards(ctx context.Context, where string, args ...any) ([]StoredCard, error) {
	q := `SELECT oracle_id, name, set_code, layout, frame, kind, type1, type2, colors, image_url, image_filename
		FROM cards WHERE ` + where + ` ORDER BY name`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var out []StoredCard
	for rows.Next() {
		var c StoredCard
		var oracleID string
		err := rows.Scan(&oracleID, &c.Name, &c.SetCode, &c.Layout, &c.Frame,
			&c.Kind, &c.Type1, &c.Type2, &c.Colors, &c.ImageURL, &c.ImageFilename)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		c.OracleID, err = uuid.Parse(oracleID)
		if err != nil {
			return nil, fmt.Errorf("invalid oracle id %q: %w", oracleID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveVocabulary snapshots a vocabulary under the given name, replacing any
// previous snapshot with that name.
func (s *Store) SaveVocabulary(ctx context.Context, name string, v *vocab.Vocabulary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM vocabularies WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to clear vocabulary %q: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO vocabularies (name, token_id, token) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare vocab insert: %w", err)
	}
	defer stmt.Close()

	for id, tok := range v.Tokens() {
		if _, err := stmt.ExecContext(ctx, name, id, tok); err != nil {
			return fmt.Errorf("failed to insert token %q: %w", tok, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vocabulary: %w", err)
	}
	return nil
}

// LoadVocabulary restores a snapshot saved by SaveVocabulary.
func (s *Store) LoadVocabulary(ctx context.Context, name string) (*vocab.Vocabulary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT token FROM vocabularies WHERE name = ? ORDER BY token_id", name)
	if err != nil {
		return nil, fmt.Errorf("failed to query vocabulary %q: %w", name, err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, tok)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no vocabulary named %q", name)
	}
	return vocab.FromTokens(tokens)
}

// Sets lists the distinct set codes present in the store, for driving the
// categorical encoder without re-reading bulk files.
func (s *Store) Sets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT set_code FROM cards ORDER BY set_code")
	if err != nil {
		return nil, fmt.Errorf("failed to query sets: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		out = append(out, strings.TrimSpace(code))
	}
	return out, rows.Err()
}
