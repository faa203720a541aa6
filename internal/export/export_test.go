package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/remindr/internal/store"
)

func sampleHistory() []store.IntakeRecord {
	return []store.IntakeRecord{
		{Date: "2026-08-28", IntakeML: 2500, TargetML: 2500},
		{Date: "2026-08-27", IntakeML: 1200, TargetML: 2400},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ToCSV(sampleHistory(), path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0][0] != "Date" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][1] != "2500" || rows[1][3] != "100%" {
		t.Fatalf("row = %v", rows[1])
	}
	if rows[2][3] != "50%" {
		t.Fatalf("row = %v", rows[2])
	}
}

func TestToCSVZeroTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := []store.IntakeRecord{{Date: "2026-08-28", IntakeML: 500}}
	if err := ToCSV(records, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "%") {
		t.Fatalf("completion rendered without a target: %s", data)
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	reminders := []store.ReminderRecord{
		{Kind: "water", FiredAt: time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC), Message: "drink"},
		{Kind: "supplement", Source: "Iron", FiredAt: time.Date(2026, 8, 28, 21, 0, 0, 0, time.UTC), Message: "take iron"},
	}
	if err := ToJSON(sampleHistory(), reminders, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		ExportedAt string `json:"exported_at"`
		Days       []struct {
			Date     string `json:"date"`
			IntakeML int    `json:"intake_ml"`
		} `json:"days"`
		Reminders []struct {
			Kind   string `json:"kind"`
			Source string `json:"source"`
		} `json:"reminders"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.ExportedAt == "" {
		t.Fatal("no export timestamp")
	}
	if len(out.Days) != 2 || out.Days[0].IntakeML != 2500 {
		t.Fatalf("days = %+v", out.Days)
	}
	if len(out.Reminders) != 2 || out.Reminders[1].Source != "Iron" {
		t.Fatalf("reminders = %+v", out.Reminders)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ToJSON(nil, nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !json.Valid(data) {
		t.Fatalf("invalid json: %s", data)
	}
}
