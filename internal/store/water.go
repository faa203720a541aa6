package store

import "fmt"

const waterPath = "water/current"

// GetWater returns the user's water document, or nil when none exists yet.
func (s *Store) GetWater(userID string) (*WaterDoc, error) {
	doc := &WaterDoc{}
	found, err := s.getInto(userID, waterPath, doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return doc, nil
}

// MergeWater merge-writes fields into the water document.
func (s *Store) MergeWater(userID string, fields map[string]any) error {
	return s.MergeDocument(userID, waterPath, fields)
}

// AddWater increments today's intake by ml and returns the new total.
func (s *Store) AddWater(userID string, ml int) (int, error) {
	doc, err := s.GetWater(userID)
	if err != nil {
		return 0, err
	}
	total := ml
	if doc != nil {
		total += doc.Intake
	}
	if total < 0 {
		total = 0
	}
	if err := s.MergeWater(userID, map[string]any{"waterIntake": total}); err != nil {
		return 0, err
	}
	return total, nil
}

// GetProfile returns the user's profile document, or nil when none exists.
func (s *Store) GetProfile(userID string) (*Profile, error) {
	p := &Profile{}
	found, err := s.getInto(userID, "profile", p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return p, nil
}

// MergeProfile merge-writes fields into the profile document.
func (s *Store) MergeProfile(userID string, fields map[string]any) error {
	return s.MergeDocument(userID, "profile", fields)
}

// SetNotificationWindow stores the daily window on the profile document.
func (s *Store) SetNotificationWindow(userID string, w NotificationWindow) error {
	if w.Start == "" || w.End == "" {
		return fmt.Errorf("notification window needs both start and end")
	}
	return s.MergeProfile(userID, map[string]any{"notificationWindow": w})
}
