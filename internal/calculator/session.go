package calculator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/samijaber1/aegis-reliability/internal/eval"
	"github.com/samijaber1/aegis-reliability/internal/grid"
	"github.com/samijaber1/aegis-reliability/internal/recalc"
)

// Calculator names one of the three calculators in a session
type Calculator string

const (
	CalculatorMTBF         Calculator = "mtbf"
	CalculatorMTTR         Calculator = "mttr"
	CalculatorAvailability Calculator = "availability"
)

var (
	ErrUnknownCalculator = errors.New("unknown calculator")
	ErrUnknownField      = errors.New("unknown field")
	ErrUnknownTab        = errors.New("unknown tab")
)

// ChangeFunc receives the state and results after every recalculation
type ChangeFunc func(Snapshot, Outputs)

// SessionOptions configures a Session
type SessionOptions struct {
	Printer *Printer
	// Window is the debounce window for input changes
	Window   time.Duration
	OnChange ChangeFunc
	Logger   *zap.SugaredLogger
}

// Session is the state of one calculator page: the MTBF, MTTR and
// availability calculators plus the active tab. Input changes are coalesced
// and trigger a single recalculation once they settle.
//
// All exported methods are safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	mtbf     *TimeMetricCalc
	mttr     *TimeMetricCalc
	avail    *AvailabilityCalc
	tab      Tab
	outputs  Outputs
	printer  *Printer
	onChange ChangeFunc
	log      *zap.SugaredLogger

	debouncer *recalc.Debouncer

	// seq numbers recalculations under mu; saveMu orders onChange calls and
	// delivered is the newest seq handed to onChange.
	seq       uint64
	saveMu    sync.Mutex
	delivered uint64
}

// NewSession creates a session seeded with the default rows and computes the
// initial results.
func NewSession(opts SessionOptions) *Session {
	if opts.Printer == nil {
		opts.Printer = MustPrinter(DefaultLocale)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	s := &Session{
		mtbf:     NewTimeMetricCalc(eval.KindMTBF, DefaultMTBFRows),
		mttr:     NewTimeMetricCalc(eval.KindMTTR, DefaultMTTRRows),
		avail:    NewAvailabilityCalc(DefaultDowntimeRows),
		tab:      TabIntro,
		printer:  opts.Printer,
		onChange: opts.OnChange,
		log:      opts.Logger,
	}
	s.debouncer = recalc.New(opts.Window, s.recalculate)
	s.outputs = EvaluateAll(s.snapshotLocked(), s.printer)

	return s
}

// SetField updates one text field and schedules a recalculation
func (s *Session) SetField(calc Calculator, field string, value Token) error {
	return s.Update(Update{Calculator: calc, Field: field, Value: value})
}

// SetRows replaces the grid rows of a calculator and schedules a
// recalculation
func (s *Session) SetRows(calc Calculator, rows []string) error {
	if rows == nil {
		rows = []string{}
	}
	return s.Update(Update{Calculator: calc, Rows: rows})
}

// Update is a set of changes applied to a session at once
type Update struct {
	Calculator Calculator
	// Field is left unchanged when empty
	Field string
	Value Token
	// Rows are left unchanged when nil
	Rows []string
	// ActiveTab is left unchanged when empty
	ActiveTab Tab
}

// Update applies every part of u or, if any part is invalid, none of it
func (s *Session) Update(u Update) error {
	if u.ActiveTab != "" && !u.ActiveTab.Valid() {
		return fmt.Errorf("%q: %w", u.ActiveTab, ErrUnknownTab)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var set func(Token)
	if u.Field != "" {
		var err error
		if set, err = s.fieldSetterLocked(u.Calculator, u.Field); err != nil {
			return err
		}
	}

	var g *grid.Grid
	if u.Rows != nil {
		switch u.Calculator {
		case CalculatorMTBF, CalculatorMTTR:
			g = s.timeMetric(u.Calculator).Grid()
		case CalculatorAvailability:
			g = s.avail.Grid()
		default:
			return fmt.Errorf("%q: %w", u.Calculator, ErrUnknownCalculator)
		}
	}

	if set != nil {
		set(u.Value)
	}
	if g != nil {
		g.Replace(u.Rows)
	}
	if u.ActiveTab != "" {
		s.tab = u.ActiveTab
	}

	s.debouncer.Trigger()
	return nil
}

func (s *Session) fieldSetterLocked(calc Calculator, field string) (func(Token), error) {
	switch calc {
	case CalculatorMTBF, CalculatorMTTR:
		c := s.timeMetric(calc)
		switch field {
		case "total":
			return c.SetTotal, nil
		case "count":
			return c.SetCount, nil
		}
	case CalculatorAvailability:
		switch field {
		case "mtbf":
			return s.avail.SetMTBF, nil
		case "mttr":
			return s.avail.SetMTTR, nil
		case "period":
			return s.avail.SetPeriod, nil
		case "down":
			return s.avail.SetDown, nil
		case "failures":
			return s.avail.SetFailures, nil
		}
	default:
		return nil, fmt.Errorf("%q: %w", calc, ErrUnknownCalculator)
	}
	return nil, fmt.Errorf("%s.%s: %w", calc, field, ErrUnknownField)
}

// SetActiveTab records which section is showing
func (s *Session) SetActiveTab(tab Tab) error {
	if !tab.Valid() {
		return fmt.Errorf("%q: %w", tab, ErrUnknownTab)
	}

	s.mu.Lock()
	s.tab = tab
	s.mu.Unlock()

	s.debouncer.Trigger()
	return nil
}

// Calculate recalculates immediately, absorbing any pending debounced run
func (s *Session) Calculate() Outputs {
	if !s.debouncer.Flush() {
		s.recalculate()
	}
	return s.Outputs()
}

// Pending reports whether a debounced recalculation is still waiting
func (s *Session) Pending() bool {
	return s.debouncer.Pending()
}

// Outputs returns the results of the last recalculation
func (s *Session) Outputs() Outputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputs
}

// Snapshot returns the raw state of every calculator
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Restore loads a saved snapshot and recalculates. An unknown tab falls back
// to the intro.
func (s *Session) Restore(snap Snapshot) {
	s.mu.Lock()
	s.mtbf.SetState(snap.MTBF)
	s.mttr.SetState(snap.MTTR)
	s.avail.SetState(snap.Avail)
	if snap.ActiveTab.Valid() {
		s.tab = snap.ActiveTab
	} else {
		s.tab = TabIntro
	}
	s.mu.Unlock()

	s.Calculate()
}

// Close stops the debouncer and runs the recalculation it was holding
func (s *Session) Close() {
	s.debouncer.FlushAndStop()
}

func (s *Session) recalculate() {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	snap := s.snapshotLocked()
	outputs := EvaluateAll(snap, s.printer)
	s.outputs = outputs
	onChange := s.onChange
	s.mu.Unlock()

	s.log.Debugw("recalculated session",
		"mtbf", outputs.MTBF.Method(),
		"mttr", outputs.MTTR.Method(),
		"steady", outputs.Steady.Method(),
		"period", outputs.Period.Method())

	if onChange == nil {
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	// A newer recalculation was already delivered
	if seq < s.delivered {
		s.log.Debugw("dropping stale session change", "seq", seq, "delivered", s.delivered)
		return
	}
	s.delivered = seq
	onChange(snap, outputs)
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		MTBF:      s.mtbf.State(),
		MTTR:      s.mttr.State(),
		Avail:     s.avail.State(),
		ActiveTab: s.tab,
	}
}

func (s *Session) timeMetric(calc Calculator) *TimeMetricCalc {
	if calc == CalculatorMTTR {
		return s.mttr
	}
	return s.mtbf
}
