package main

import (
	"strings"
	"testing"

	"github.com/stackscout/stackscout/internal/storage"
)

func i64(v int64) *int64 { return &v }

func TestFormatSalaryBounds(t *testing.T) {
	tests := []struct {
		name string
		job  storage.Job
		want string
	}{
		{"range", storage.Job{SalaryMin: i64(100000), SalaryMax: i64(150000), SalaryCurrency: "USD"}, "$100,000-$150,000"},
		{"open-ended", storage.Job{SalaryMin: i64(100000), SalaryCurrency: "GBP"}, "£100,000+"},
		{"exact", storage.Job{SalaryMin: i64(95000), SalaryMax: i64(95000), SalaryCurrency: "EUR"}, "€95,000"},
		{"no currency", storage.Job{SalaryMin: i64(80000), SalaryMax: i64(120000)}, "80,000-120,000"},
		{"unparsed with raw text", storage.Job{Salary: "Competitive"}, "Competitive"},
		{"nothing at all", storage.Job{}, "salary n/a"},
	}

	for _, tt := range tests {
		if got := formatSalaryBounds(tt.job); got != tt.want {
			t.Errorf("%s: formatSalaryBounds = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	if result := colorize(colorGreen, "hello"); strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	if result := colorize(colorGreen, "hello"); !strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}

func TestCountLabel(t *testing.T) {
	if got := countLabel(5, 200); got != "5" {
		t.Errorf("countLabel(5, 200) = %q, want 5", got)
	}
	if got := countLabel(200, 200); got != "200+" {
		t.Errorf("countLabel(200, 200) = %q, want 200+", got)
	}
}

func TestIngestCmd_RequiresFile(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"ingest"})
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--file is required") {
		t.Errorf("ingest without --file: err = %v, want --file is required", err)
	}
}
