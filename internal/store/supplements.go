package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const supplementPrefix = "supplements/"

func supplementPath(id string) string { return supplementPrefix + id }

// CreateSupplement stores a new supplement document and returns it.
func (s *Store) CreateSupplement(userID, name string, quantity, dailyUsage float64, schedule []string) (*Supplement, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("supplement name is required")
	}
	supp := &Supplement{
		ID:         uuid.NewString(),
		Name:       name,
		Quantity:   quantity,
		DailyUsage: dailyUsage,
		Schedule:   schedule,
	}
	if err := s.SetDocument(userID, supplementPath(supp.ID), supp); err != nil {
		return nil, err
	}
	return supp, nil
}

// GetSupplement returns one supplement document, or nil when absent.
func (s *Store) GetSupplement(userID, id string) (*Supplement, error) {
	supp := &Supplement{}
	found, err := s.getInto(userID, supplementPath(id), supp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return supp, nil
}

// ListSupplements returns all supplement documents sorted by name.
func (s *Store) ListSupplements(userID string) ([]Supplement, error) {
	rows, err := s.db.Query(
		`SELECT data FROM documents WHERE user_id = ? AND path LIKE ?`,
		userID, supplementPrefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("list supplements: %w", err)
	}
	defer rows.Close()

	var supps []Supplement
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var supp Supplement
		if err := json.Unmarshal([]byte(data), &supp); err != nil {
			return nil, fmt.Errorf("decode supplement: %w", err)
		}
		supps = append(supps, supp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(supps, func(i, j int) bool { return supps[i].Name < supps[j].Name })
	return supps, nil
}

// MergeSupplement merge-writes fields into one supplement document.
func (s *Store) MergeSupplement(userID, id string, fields map[string]any) error {
	return s.MergeDocument(userID, supplementPath(id), fields)
}

// TakeSupplement records one daily dose: decrements remaining quantity and
// increments today's consumption.
func (s *Store) TakeSupplement(userID, id string) (*Supplement, error) {
	supp, err := s.GetSupplement(userID, id)
	if err != nil {
		return nil, err
	}
	if supp == nil {
		return nil, fmt.Errorf("supplement %s not found", id)
	}
	supp.Quantity -= supp.DailyUsage
	if supp.Quantity < 0 {
		supp.Quantity = 0
	}
	supp.ConsumedToday += supp.DailyUsage
	err = s.MergeSupplement(userID, id, map[string]any{
		"quantity":      supp.Quantity,
		"consumedToday": supp.ConsumedToday,
	})
	if err != nil {
		return nil, err
	}
	return supp, nil
}

// DeleteSupplement removes a supplement document.
func (s *Store) DeleteSupplement(userID, id string) error {
	return s.DeleteDocument(userID, supplementPath(id))
}
