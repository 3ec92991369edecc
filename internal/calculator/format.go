package calculator

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale matches the audience the calculator was written for
const DefaultLocale = "pt-BR"

// Printer renders numbers with locale-specific grouping and decimal marks
type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewPrinter returns a printer for a BCP 47 locale such as "pt-BR" or "en-US"
func NewPrinter(locale string) (*Printer, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Printer{tag: tag, printer: message.NewPrinter(tag)}, nil
}

// MustPrinter is NewPrinter for locales known at compile time
func MustPrinter(locale string) *Printer {
	p, err := NewPrinter(locale)
	if err != nil {
		panic(err)
	}
	return p
}

// Locale returns the printer's language tag
func (p *Printer) Locale() string {
	return p.tag.String()
}

// Number formats n with a fixed number of decimals
func (p *Printer) Number(n float64, decimals int) string {
	return p.printer.Sprintf(fmt.Sprintf("%%.%df", decimals), n)
}

// Percent formats a fraction as a percentage, e.g. 0.1234 -> "12,34%"
func (p *Printer) Percent(x float64, decimals int) string {
	return p.Number(x*100, decimals) + "%"
}
