package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"aidbg/model"
)

// ArchivedTranscript is a saved conversation snapshot.
type ArchivedTranscript struct {
	ID        string
	Name      string
	Model     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []model.Message
}

// ArchiveMetadata is the lightweight listing form, without message bodies.
type ArchiveMetadata struct {
	ID           string
	Name         string
	Model        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
}

// Archive stores transcript snapshots in a sqlite database under the data
// directory.
type Archive struct {
	db *sql.DB
}

func NewArchive(dataDir string) (*Archive, error) {
	dbPath := filepath.Join(dataDir, "archive.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	archive := &Archive{db: db}

	if err := archive.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return archive, nil
}

func (a *Archive) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transcripts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		model TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		messages TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transcripts_name ON transcripts(name);
	`

	_, err := a.db.Exec(schema)
	return err
}

// Save writes a snapshot, assigning an ID when the transcript is new.
func (a *Archive) Save(t *ArchivedTranscript) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	t.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}

	payload, err := json.Marshal(t.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO transcripts (id, name, model, created_at, updated_at, messages)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = a.db.Exec(query, t.ID, t.Name, t.Model, t.CreatedAt, t.UpdatedAt, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	return nil
}

// Load returns the snapshot with the given ID, or nil when absent.
func (a *Archive) Load(id string) (*ArchivedTranscript, error) {
	query := `
	SELECT id, name, model, created_at, updated_at, messages
	FROM transcripts
	WHERE id = ?
	`

	var t ArchivedTranscript
	var payload string
	err := a.db.QueryRow(query, id).Scan(&t.ID, &t.Name, &t.Model, &t.CreatedAt, &t.UpdatedAt, &payload)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(payload), &t.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}

	return &t, nil
}

// List returns metadata for every snapshot, newest first.
func (a *Archive) List() ([]ArchiveMetadata, error) {
	query := `
	SELECT id, name, model, created_at, updated_at, messages
	FROM transcripts
	ORDER BY updated_at DESC
	`

	rows, err := a.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ArchiveMetadata
	for rows.Next() {
		var meta ArchiveMetadata
		var payload string
		if err := rows.Scan(&meta.ID, &meta.Name, &meta.Model, &meta.CreatedAt, &meta.UpdatedAt, &payload); err != nil {
			continue
		}

		var messages []model.Message
		if err := json.Unmarshal([]byte(payload), &messages); err == nil {
			meta.MessageCount = len(messages)
		}

		out = append(out, meta)
	}

	return out, rows.Err()
}

func (a *Archive) Delete(id string) error {
	_, err := a.db.Exec(`DELETE FROM transcripts WHERE id = ?`, id)
	return err
}

func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
