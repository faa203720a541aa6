package store

import (
	"fmt"
	"time"
)

// ArchiveIntake records the final intake for a calendar date. Re-archiving
// the same date overwrites it, so the midnight rollover is idempotent.
func (s *Store) ArchiveIntake(userID, date string, intakeML, targetML int) error {
	_, err := s.db.Exec(
		`INSERT INTO water_history (user_id, date, intake_ml, target_ml) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, date) DO UPDATE SET
			intake_ml = excluded.intake_ml,
			target_ml = excluded.target_ml`,
		userID, date, intakeML, targetML,
	)
	if err != nil {
		return fmt.Errorf("archive intake for %s: %w", date, err)
	}
	return nil
}

// ListHistory returns the most recent archived days, newest first.
// limit <= 0 means no limit.
func (s *Store) ListHistory(userID string, limit int) ([]IntakeRecord, error) {
	query := `SELECT date, intake_ml, target_ml FROM water_history WHERE user_id = ? ORDER BY date DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var records []IntakeRecord
	for rows.Next() {
		var r IntakeRecord
		if err := rows.Scan(&r.Date, &r.IntakeML, &r.TargetML); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LogReminder appends one delivered reminder to the audit trail.
func (s *Store) LogReminder(userID, kind, source string, firedAt time.Time, message string) error {
	_, err := s.db.Exec(
		`INSERT INTO reminder_log (user_id, kind, source, fired_at, message) VALUES (?, ?, ?, ?, ?)`,
		userID, kind, source, firedAt.UTC().Format(time.RFC3339), message,
	)
	if err != nil {
		return fmt.Errorf("log reminder: %w", err)
	}
	return nil
}

// ListReminderLog returns the most recently delivered reminders, newest
// first. limit <= 0 means no limit.
func (s *Store) ListReminderLog(userID string, limit int) ([]ReminderRecord, error) {
	query := `SELECT id, kind, source, fired_at, message FROM reminder_log WHERE user_id = ? ORDER BY fired_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reminder log: %w", err)
	}
	defer rows.Close()

	var records []ReminderRecord
	for rows.Next() {
		var r ReminderRecord
		var fired string
		if err := rows.Scan(&r.ID, &r.Kind, &r.Source, &fired, &r.Message); err != nil {
			return nil, err
		}
		r.FiredAt, _ = time.Parse(time.RFC3339, fired)
		records = append(records, r)
	}
	return records, rows.Err()
}
