package calculator

import (
	"strings"
	"testing"
)

func TestPrinter_PortugueseDecimals(t *testing.T) {
	p := MustPrinter("pt-BR")

	if got := p.Number(1.23456, 3); !strings.Contains(got, "1,235") {
		t.Errorf("expected pt-BR decimal 1,235, got %s", got)
	}

	if got := p.Percent(0.1234, 2); !strings.Contains(got, "12,34%") {
		t.Errorf("expected 12,34%%, got %s", got)
	}
}

func TestPrinter_EnglishDecimals(t *testing.T) {
	p := MustPrinter("en-US")

	if got := p.Number(2.5, 3); got != "2.500" {
		t.Errorf("expected 2.500, got %s", got)
	}

	if got := p.Percent(0.98333, 2); got != "98.33%" {
		t.Errorf("expected 98.33%%, got %s", got)
	}
}

func TestNewPrinter_InvalidLocale(t *testing.T) {
	if _, err := NewPrinter("not a locale!"); err == nil {
		t.Error("expected error for invalid locale")
	}
}

func TestPrinter_Locale(t *testing.T) {
	if got := MustPrinter("pt-BR").Locale(); got != "pt-BR" {
		t.Errorf("expected pt-BR, got %s", got)
	}
}
