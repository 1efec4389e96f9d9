package weekdate

import (
	"testing"
	"time"
)

func TestStandardizeWeekDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		year int
		want string
	}{
		{"same month", "SEMANA DE 4-10 DE NOVEMBRO", 2024, "4-10 de NOV, 2024"},
		{"same month with A", "4 A 10 DE NOVEMBRO", 2024, "4-10 de NOV, 2024"},
		{"en dash", "Semana de 4–10 de novembro", 2024, "4-10 de NOV, 2024"},
		{"abbreviated month", "11-17 NOV", 2024, "11-17 de NOV, 2024"},
		{"year rollover", "SEMANA DE 30 DE DEZEMBRO - 5 DE JANEIRO", 2024, "30 de DEZ, 2024 - 5 de JAN, 2025"},
		{"cross month", "28 DE OUTUBRO - 3 DE NOVEMBRO", 2024, "28 de OUT - 3 de NOV, 2024"},
		{"cedilla month", "3-9 DE MARÇO", 2025, "3-9 de MAR, 2025"},
		{"already normalized", "4-10 de NOV, 2024", 2030, "4-10 de NOV, 2024"},
		{"fallback appends year", "ALGUMA COISA", 2024, "ALGUMA COISA, 2024"},
		{"empty", "", 2024, "Semana Indefinida, 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StandardizeWeekDate(tt.raw, tt.year); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStandardizeWeekDate_Idempotent(t *testing.T) {
	inputs := []string{
		"SEMANA DE 4-10 DE NOVEMBRO",
		"SEMANA DE 30 DE DEZEMBRO - 5 DE JANEIRO",
		"28 DE OUTUBRO - 3 DE NOVEMBRO",
		"ALGUMA COISA",
		"",
	}
	for _, in := range inputs {
		once := StandardizeWeekDate(in, 2024)
		twice := StandardizeWeekDate(once, 2024)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestStandardizeWeekDate_UndefinedWeekStable(t *testing.T) {
	label := StandardizeWeekDate("   ", 2024)
	if label != "Semana Indefinida, 2024" {
		t.Fatalf("expected %q, got %q", "Semana Indefinida, 2024", label)
	}
	for _, year := range []int{2024, 2025} {
		if got := StandardizeWeekDate(label, year); got != label {
			t.Errorf("year %d: expected %q, got %q", year, label, got)
		}
	}
}

func TestParseWeekDate(t *testing.T) {
	tests := []struct {
		label string
		want  time.Time
	}{
		{"4-10 de NOV, 2024", time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC)},
		{"30 de DEZ, 2024 - 5 de JAN, 2025", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)},
		{"3-9 de MARÇO 2025", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"4-10 de NOV", Epoch},
		{"sem data", Epoch},
		{"", Epoch},
	}
	for _, tt := range tests {
		if got := ParseWeekDate(tt.label); !got.Equal(tt.want) {
			t.Errorf("ParseWeekDate(%q): expected %v, got %v", tt.label, tt.want, got)
		}
	}
}

func TestCalculatePartDate_WeekdayParity(t *testing.T) {
	// 2025 is odd: Wednesday.
	if got := CalculatePartDate("3-9 de FEV, 2025"); got != "2025-02-05T00:00:00.000Z" {
		t.Errorf("expected Wednesday 2025-02-05, got %s", got)
	}
	// 2026 is even: Thursday.
	got := CalculatePartDate("2-8 de FEV, 2026")
	if got != "2026-02-05T00:00:00.000Z" {
		t.Errorf("expected Thursday 2026-02-05, got %s", got)
	}
	d, _ := time.Parse(ISOLayout, got)
	if d.Weekday() != time.Thursday {
		t.Errorf("expected Thursday, got %s", d.Weekday())
	}
}

func TestCalculatePartDate_Unparseable(t *testing.T) {
	if got := CalculatePartDate("???"); got != "1970-01-01T00:00:00.000Z" {
		t.Errorf("expected epoch, got %s", got)
	}
}

func TestDetectYear(t *testing.T) {
	if y, ok := DetectYear("apostila-nov-2024.pdf"); !ok || y != 2024 {
		t.Errorf("expected 2024, got %d %v", y, ok)
	}
	if _, ok := DetectYear("apostila.pdf"); ok {
		t.Error("expected no year")
	}
}

func TestFormatWeekRange(t *testing.T) {
	tests := []struct {
		monday time.Time
		want   string
	}{
		{time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC), "4-10 de NOV, 2024"},
		{time.Date(2024, 10, 28, 0, 0, 0, 0, time.UTC), "28 de OUT - 3 de NOV, 2024"},
		{time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), "30 de DEZ, 2024 - 5 de JAN, 2025"},
	}
	for _, tt := range tests {
		if got := FormatWeekRange(tt.monday); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestWeeksForWorkbook(t *testing.T) {
	weeks := WeeksForWorkbook("NOV/DEZ 2024")
	if len(weeks) != 10 {
		t.Fatalf("expected 10 weeks, got %d: %v", len(weeks), weeks)
	}
	if weeks[0] != "28 de OUT - 3 de NOV, 2024" {
		t.Errorf("unexpected first week %q", weeks[0])
	}
	if weeks[len(weeks)-1] != "30 de DEZ, 2024 - 5 de JAN, 2025" {
		t.Errorf("unexpected last week %q", weeks[len(weeks)-1])
	}

	if got := WeeksForWorkbook("apostila"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
