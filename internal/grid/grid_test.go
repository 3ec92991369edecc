package grid

import (
	"errors"
	"testing"
)

func TestGrid_Basics(t *testing.T) {
	g := New([]string{"210", "3:00:00"})

	if g.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", g.Len())
	}

	g.AddRow("190")
	if g.Len() != 3 {
		t.Errorf("expected 3 rows after add, got %d", g.Len())
	}

	if err := g.SetRow(0, "200"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw := g.Raw(); raw[0] != "200" {
		t.Errorf("expected first row=200, got %s", raw[0])
	}

	if err := g.RemoveRow(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw := g.Raw()
	if len(raw) != 2 || raw[0] != "200" || raw[1] != "190" {
		t.Errorf("expected [200 190], got %v", raw)
	}

	g.Clear()
	if g.Len() != 0 {
		t.Errorf("expected empty grid after clear, got %d rows", g.Len())
	}
}

func TestGrid_OutOfRange(t *testing.T) {
	g := New([]string{"1"})

	if err := g.SetRow(1, "2"); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("expected ErrRowOutOfRange, got %v", err)
	}
	if err := g.RemoveRow(-1); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("expected ErrRowOutOfRange, got %v", err)
	}
}

func TestGrid_RawIsCopy(t *testing.T) {
	seed := []string{"1", "2"}
	g := New(seed)
	seed[0] = "changed"

	raw := g.Raw()
	raw[1] = "changed"

	again := g.Raw()
	if again[0] != "1" || again[1] != "2" {
		t.Errorf("expected grid to be isolated from callers, got %v", again)
	}
}

func TestGrid_HasInvalid(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		expected bool
	}{
		{"all valid", []string{"1.5", "01:30:00"}, false},
		{"empty rows are not invalid", []string{"01:30:00", "", "  "}, false},
		{"one invalid", []string{"1.5", "oops"}, true},
		{"negative", []string{"-2"}, true},
		{"no rows", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.rows).HasInvalid(); got != tt.expected {
				t.Errorf("expected HasInvalid=%v, got %v", tt.expected, got)
			}
		})
	}
}

func TestGrid_Validate(t *testing.T) {
	statuses := New([]string{"1.5", "oops", ""}).Validate()

	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Valid || statuses[0].Hours != 1.5 {
		t.Errorf("expected row 0 valid with 1.5h, got %+v", statuses[0])
	}
	if statuses[1].Valid || statuses[1].Empty {
		t.Errorf("expected row 1 invalid and non-empty, got %+v", statuses[1])
	}
	if statuses[2].Valid || !statuses[2].Empty {
		t.Errorf("expected row 2 empty, got %+v", statuses[2])
	}
}

func TestGrid_Values(t *testing.T) {
	g := New([]string{"2.5", "", "oops", "0:45", "1:30:00"})

	values := g.Values()
	expected := []float64{2.5, 45.0 / 3600, 1.5}

	if len(values) != len(expected) {
		t.Fatalf("expected %d values, got %d (%v)", len(expected), len(values), values)
	}
	for i := range expected {
		if values[i] != expected[i] {
			t.Errorf("value %d: expected %v, got %v", i, expected[i], values[i])
		}
	}
}
