package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/rotaflow/rota/internal/common"
	"github.com/rotaflow/rota/internal/model"
	"github.com/rotaflow/rota/internal/ocr"
	"github.com/rotaflow/rota/internal/parse"
)

// State tracks where a schedule run is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingInput
	StateAnalyzing
	StateReconciling
	StateReviewed
	StateExported
	StateFailed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateAnalyzing:
		return "analyzing"
	case StateReconciling:
		return "reconciling"
	case StateReviewed:
		return "reviewed"
	case StateExported:
		return "exported"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ScheduleStore persists finished analysis runs for later review/export.
type ScheduleStore interface {
	SaveSchedule(ctx context.Context, schedule *model.Schedule) error
	UpdateScheduleDays(ctx context.Context, id int64, days model.DaySequence) error
}

// Codebook plus the reconciler options make up the engine's matching
// behavior; the OCR provider is the only suspending dependency.
type Engine struct {
	store    ScheduleStore
	codebook Codebook
	provider ocr.Provider
	mu       sync.Mutex
	state    State
	inFlight bool
}

// NewEngine creates a schedule engine with the given dependencies.
func NewEngine(store ScheduleStore, codebook Codebook, provider ocr.Provider) *Engine {
	return &Engine{
		store:    store,
		codebook: codebook,
		provider: provider,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	slog.Debug("engine state", "state", s.String())
}

// Analyze runs the full pipeline for one request: OCR (when an image is
// given), parsing, reconciliation, and assembly. Only one analysis may
// be in flight at a time; re-entrant calls are rejected.
func (e *Engine) Analyze(ctx context.Context, req model.ScheduleRequest) (*model.ReconciliationResult, *model.Schedule, error) {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: an analysis is already in progress", common.ErrInvalidInput)
	}
	e.inFlight = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	e.setState(StateAwaitingInput)
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", common.ErrInvalidInput, err)
	}

	text := req.RawText
	if req.ImagePath != "" {
		e.setState(StateAnalyzing)
		recognized, err := e.recognize(ctx, req.ImagePath)
		if err != nil {
			// OCR failure aborts the run; no partial day sequence. The
			// next Analyze call resets the state, so failure is recoverable.
			e.setState(StateFailed)
			return nil, nil, fmt.Errorf("%w: %s", common.ErrOCRProvider, err)
		}
		text = recognized
	}

	e.setState(StateReconciling)
	result := e.reconcileText(text, req, parse.Options{})

	schedule := &model.Schedule{
		PersonName: req.PersonName,
		Month:      req.Month,
		Year:       req.Year,
		Days:       result.Days,
		Found:      result.Found,
	}
	if e.store != nil {
		if err := e.store.SaveSchedule(ctx, schedule); err != nil {
			return nil, nil, fmt.Errorf("failed to persist schedule: %w", err)
		}
	}

	e.setState(StateReviewed)
	return result, schedule, nil
}

// ManualCodes builds a schedule from a hand-typed delimited code list.
// Name detection never applies: the user already selected the person.
func (e *Engine) ManualCodes(ctx context.Context, req model.ScheduleRequest, codeList string) (*model.Schedule, error) {
	tokens := SplitManualCodes(codeList)
	reconciled := Reconcile(tokens, e.codebook, ManualOptions())
	days := Assemble(reconciled, req.Month, req.Year)

	schedule := &model.Schedule{
		PersonName: req.PersonName,
		Month:      req.Month,
		Year:       req.Year,
		Days:       days,
		Found:      true,
	}
	if e.store != nil {
		if err := e.store.SaveSchedule(ctx, schedule); err != nil {
			return nil, fmt.Errorf("failed to persist schedule: %w", err)
		}
	}
	return schedule, nil
}

// ManualText re-runs pasted OCR-like text through the parser heuristics
// with name detection skipped, using the permissive manual policy.
func (e *Engine) ManualText(ctx context.Context, req model.ScheduleRequest, text string) (*model.Schedule, error) {
	result := e.reconcileTextOpts(text, req, parse.Options{SkipNameMatch: true}, ManualOptions())

	schedule := &model.Schedule{
		PersonName: req.PersonName,
		Month:      req.Month,
		Year:       req.Year,
		Days:       result.Days,
		Found:      result.Found,
	}
	if e.store != nil {
		if err := e.store.SaveSchedule(ctx, schedule); err != nil {
			return nil, fmt.Errorf("failed to persist schedule: %w", err)
		}
	}
	return schedule, nil
}

// ReviseDay applies a single-day edit to a stored schedule and persists
// the revised sequence.
func (e *Engine) ReviseDay(ctx context.Context, schedule *model.Schedule, dayIndex int, code string) error {
	revised, err := model.ReviseDay(schedule.Days, dayIndex, code)
	if err != nil {
		return err
	}
	schedule.Days = revised
	if e.store != nil {
		if err := e.store.UpdateScheduleDays(ctx, schedule.ID, revised); err != nil {
			return fmt.Errorf("failed to persist day revision: %w", err)
		}
	}
	return nil
}

// MarkExported records the terminal lifecycle transition.
func (e *Engine) MarkExported() {
	e.setState(StateExported)
}

func (e *Engine) reconcileText(text string, req model.ScheduleRequest, parseOpts parse.Options) *model.ReconciliationResult {
	return e.reconcileTextOpts(text, req, parseOpts, OCROptions())
}

func (e *Engine) reconcileTextOpts(text string, req model.ScheduleRequest, parseOpts parse.Options, opts Options) *model.ReconciliationResult {
	parsed := parse.Extract(text, req.PersonName, model.DaysInMonth(req.Month, req.Year), parseOpts)

	result := &model.ReconciliationResult{RawText: parsed.RawText}
	if !parsed.Found {
		// found=false always pairs with an all-empty sequence.
		result.Days = model.NewDaySequence(req.Month, req.Year)
		return result
	}

	reconciled := Reconcile(parsed.RawTokens, e.codebook, opts)
	result.Days = Assemble(reconciled, req.Month, req.Year)
	// A located table row counts as found even when every cell is blank,
	// so the user can still review and fix it. Free text needs at least
	// one resolved day.
	result.Found = parsed.Table || result.Days.Resolved() > 0
	return result
}

func (e *Engine) recognize(ctx context.Context, imagePath string) (string, error) {
	if e.provider == nil {
		return "", fmt.Errorf("no ocr provider configured")
	}
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return e.provider.Recognize(ctx, ocr.Request{Image: data, Filename: imagePath})
}
