package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/remindr/internal/store"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Days       []jsonDay      `json:"days"`
	Reminders  []jsonReminder `json:"reminders,omitempty"`
}

type jsonDay struct {
	Date       string `json:"date"`
	IntakeML   int    `json:"intake_ml"`
	TargetML   int    `json:"target_ml"`
	Completion string `json:"completion,omitempty"`
}

type jsonReminder struct {
	Kind    string `json:"kind"`
	Source  string `json:"source,omitempty"`
	FiredAt string `json:"fired_at"`
	Message string `json:"message"`
}

func ToJSON(history []store.IntakeRecord, reminders []store.ReminderRecord, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, rec := range history {
		export.Days = append(export.Days, jsonDay{
			Date:       rec.Date,
			IntakeML:   rec.IntakeML,
			TargetML:   rec.TargetML,
			Completion: formatCompletion(rec.IntakeML, rec.TargetML),
		})
	}

	for _, rec := range reminders {
		export.Reminders = append(export.Reminders, jsonReminder{
			Kind:    rec.Kind,
			Source:  rec.Source,
			FiredAt: rec.FiredAt.Local().Format(time.RFC3339),
			Message: rec.Message,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
