package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// GetDocument returns the raw JSON document at (userID, path), or nil when
// no document exists yet.
func (s *Store) GetDocument(userID, path string) (json.RawMessage, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT data FROM documents WHERE user_id = ? AND path = ?`,
		userID, path,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", path, err)
	}
	return json.RawMessage(data), nil
}

// MergeDocument upserts fields into the document at (userID, path) with
// merge semantics: existing keys not named in fields are left untouched,
// a nil value deletes its key. The write is a single statement, so it is
// all-or-nothing.
func (s *Store) MergeDocument(userID, path string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal patch for %q: %w", path, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`INSERT INTO documents (user_id, path, data, updated_at) VALUES (?, ?, json(?), ?)
		 ON CONFLICT(user_id, path) DO UPDATE SET
			data = json_patch(documents.data, excluded.data),
			updated_at = excluded.updated_at`,
		userID, path, string(patch), now,
	)
	if err != nil {
		return fmt.Errorf("merge document %q: %w", path, err)
	}
	return nil
}

// SetDocument replaces the document at (userID, path) wholesale.
func (s *Store) SetDocument(userID, path string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %q: %w", path, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`INSERT INTO documents (user_id, path, data, updated_at) VALUES (?, ?, json(?), ?)
		 ON CONFLICT(user_id, path) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		userID, path, string(data), now,
	)
	if err != nil {
		return fmt.Errorf("set document %q: %w", path, err)
	}
	return nil
}

// DeleteDocument removes the document at (userID, path). Missing documents
// are not an error.
func (s *Store) DeleteDocument(userID, path string) error {
	_, err := s.db.Exec(
		`DELETE FROM documents WHERE user_id = ? AND path = ?`,
		userID, path,
	)
	if err != nil {
		return fmt.Errorf("delete document %q: %w", path, err)
	}
	return nil
}

func (s *Store) getInto(userID, path string, out any) (bool, error) {
	raw, err := s.GetDocument(userID, path)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode document %q: %w", path, err)
	}
	return true, nil
}
