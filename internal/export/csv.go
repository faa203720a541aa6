package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/remindr/internal/store"
)

func ToCSV(history []store.IntakeRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Intake (ml)", "Target (ml)", "Completion"}); err != nil {
		return err
	}

	for _, rec := range history {
		row := []string{
			rec.Date,
			fmt.Sprintf("%d", rec.IntakeML),
			fmt.Sprintf("%d", rec.TargetML),
			formatCompletion(rec.IntakeML, rec.TargetML),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatCompletion(intake, target int) string {
	if target <= 0 {
		return ""
	}
	return fmt.Sprintf("%.0f%%", float64(intake)/float64(target)*100)
}
