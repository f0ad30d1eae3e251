// Package generation drives the plan-generation workflow: gather context,
// call the content service once, hand the normalized blocks to the editor,
// and persist on explicit save.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"piar/entities"
	"piar/pkg/ai"
	"piar/pkg/blocks"
	"piar/pkg/catalog"
	"piar/pkg/logger"
	plansvc "piar/pkg/plan/service"
)

type State string

const (
	StateCollecting  State = "collecting_context"
	StateGenerating  State = "generating"
	StateEditing     State = "editing"
	StateSaved       State = "saved"
	StateErrorFormat State = "error_format"
)

// Stage names the discrete progress points of one generation run. Callers
// that want progress UI subscribe via a ProgressFunc; no stage is tied to
// elapsed time.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageContext   Stage = "context"
	StageRequest   Stage = "request"
	StageParse     Stage = "parse"
	StageNormalize Stage = "normalize"
)

type ProgressFunc func(Stage)

// ErrGenerating is returned when Generate is called while a call is already
// outstanding. Generation is exclusive per workflow.
var ErrGenerating = errors.New("a generation request is already in progress")

// ValidationError is a local, field-level failure. No service call was made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Request carries the user-supplied generation inputs.
type Request struct {
	StudentID       uint   `json:"student_id"`
	StudentName     string `json:"student_name"`
	PlanType        string `json:"plan_type"` // emotional|academic
	ContextForAI    string `json:"context_for_ai"`
	KeyObservations string `json:"key_observations"`
	FocusArea       string `json:"focus_area,omitempty"`
	SpecificNeeds   string `json:"specific_needs,omitempty"`
	Language        string `json:"language,omitempty"`
	UserID          string `json:"-"`
}

// PlanStore is the slice of the persistence adapter the workflow needs.
type PlanStore interface {
	Create(d plansvc.PlanDetails) (*entities.SupportPlan, error)
	Update(id uint, d plansvc.PlanDetails) (*entities.SupportPlan, error)
}

type kbSearcher interface {
	Search(ctx context.Context, query string, k int) ([]entities.KBChunk, error)
}

// Workflow is one plan-generation session. It is not re-entrant: one
// generation call may be outstanding at a time, and editing state belongs to
// the session until saved.
type Workflow struct {
	llm   ai.Client
	plans PlanStore
	kb    kbSearcher
	cat   *catalog.Catalog
	log   *logger.Logger

	progress ProgressFunc

	mu       sync.Mutex
	state    State
	req      Request
	editor   *blocks.Editor
	goal     string
	strategy string
	planID   uint
	errMsg   string
	raw      json.RawMessage
}

// New builds a workflow in the collecting-context state. kb may be nil; the
// prompt then carries no retrieved material.
func New(llm ai.Client, plans PlanStore, kb kbSearcher, cat *catalog.Catalog, log *logger.Logger) *Workflow {
	return &Workflow{llm: llm, plans: plans, kb: kb, cat: cat, log: log, state: StateCollecting}
}

// OnProgress registers a stage callback for subsequent Generate calls.
func (w *Workflow) OnProgress(fn ProgressFunc) { w.progress = fn }

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) emit(s Stage) {
	if w.progress != nil {
		w.progress(s)
	}
}

// Validate checks the mandatory generation fields without touching state.
func Validate(req Request) error {
	if req.StudentID == 0 {
		return &ValidationError{Field: "student_id", Reason: "a student must be selected"}
	}
	if strings.TrimSpace(req.ContextForAI) == "" {
		return &ValidationError{Field: "context_for_ai", Reason: "context is required"}
	}
	if strings.TrimSpace(req.KeyObservations) == "" {
		return &ValidationError{Field: "key_observations", Reason: "observations are required"}
	}
	return nil
}

// Generate runs one attempt: validation gate, optional resource retrieval,
// exactly one service call, then normalization into the editor. A validation
// failure makes no call and leaves the state untouched. A service or format
// failure moves the workflow to the error state, keeping the raw payload.
// Progress stages are emitted outside the lock, so a ProgressFunc may read
// the workflow's accessors.
func (w *Workflow) Generate(ctx context.Context, req Request) error {
	w.emit(StageValidate)
	if err := Validate(req); err != nil {
		return err
	}

	w.mu.Lock()
	if w.state == StateGenerating {
		w.mu.Unlock()
		return ErrGenerating
	}
	w.state = StateGenerating
	w.req = req
	w.mu.Unlock()

	w.emit(StageContext)
	kbCtx := w.retrieveContext(ctx, req)

	lang := req.Language
	if lang == "" {
		lang = "es"
	}
	w.emit(StageRequest)
	res, err := w.llm.GeneratePlan(ctx, ai.Request{
		StudentID:     req.StudentID,
		StudentName:   req.StudentName,
		PlanType:      req.PlanType,
		FocusArea:     req.FocusArea,
		SpecificNeeds: req.SpecificNeeds,
		Observations:  req.KeyObservations,
		Context:       req.ContextForAI,
		Language:      lang,
		UserID:        req.UserID,
	}, kbCtx)

	if err != nil {
		w.mu.Lock()
		w.state = StateErrorFormat
		w.errMsg = err.Error()
		var bad *ai.BadResponseError
		if errors.As(err, &bad) {
			w.errMsg = bad.Message
			w.raw = bad.Raw
		}
		w.mu.Unlock()
		w.log.Warn("generation failed", "student_id", req.StudentID, "error", err)
		return err
	}

	w.emit(StageParse)
	titles := w.cat.TitleFunc(lang)
	ed := blocks.NewEditor(res.Document.Normalize(titles), titles)
	w.emit(StageNormalize)

	w.mu.Lock()
	w.goal = res.SupportGoal
	w.strategy = res.SupportStrategy
	w.raw = res.Raw
	w.editor = ed
	w.state = StateEditing
	w.mu.Unlock()
	return nil
}

func (w *Workflow) retrieveContext(ctx context.Context, req Request) string {
	if w.kb == nil {
		return ""
	}
	query := strings.TrimSpace(strings.Join([]string{
		req.PlanType, "support plan", req.FocusArea, req.SpecificNeeds,
	}, " "))
	snips, err := w.kb.Search(ctx, query, 6)
	if err != nil {
		w.log.Debug("resource search failed", "error", err)
		return ""
	}
	var sb strings.Builder
	for _, ch := range snips {
		if sb.Len() > 6000 {
			break
		}
		sb.WriteString("\n---\n")
		sb.WriteString(ch.Text)
	}
	return sb.String()
}

// Editor exposes the block sequence of the current run. Nil until a
// generation succeeds.
func (w *Workflow) Editor() *blocks.Editor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.editor
}

func (w *Workflow) SupportGoal() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.goal
}

func (w *Workflow) SupportStrategy() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.strategy
}

func (w *Workflow) PlanID() uint {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.planID
}

// ErrorMessage and RawResponse describe the failed attempt in the error
// state; RawResponse is the payload offered for manual-recovery export.
func (w *Workflow) ErrorMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errMsg
}

func (w *Workflow) RawResponse() json.RawMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.raw
}

// Save persists the current block sequence. assign=false writes a draft and
// keeps the session editable; assign=true activates the plan with an
// assignment timestamp and closes the session. A persistence failure leaves
// the editor untouched so the same save can be retried.
func (w *Workflow) Save(assign bool) (*entities.SupportPlan, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateEditing || w.editor == nil {
		return nil, fmt.Errorf("nothing to save in state %s", w.state)
	}
	details := plansvc.PlanDetails{
		StudentID:       w.req.StudentID,
		SupportGoal:     w.goal,
		SupportStrategy: w.strategy,
		Blocks:          w.editor.Blocks(),
		ResponsibleID:   w.req.UserID,
		Assign:          assign,
	}
	var (
		p   *entities.SupportPlan
		err error
	)
	if w.planID == 0 {
		p, err = w.plans.Create(details)
	} else {
		p, err = w.plans.Update(w.planID, details)
	}
	if err != nil {
		return nil, err
	}
	w.planID = p.PlanID
	if assign {
		w.state = StateSaved
	}
	return p, nil
}

// Reset abandons the failed or finished run and returns to collecting
// context. The raw payload and error are cleared; nothing is retried
// automatically.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateCollecting
	w.editor = nil
	w.goal = ""
	w.strategy = ""
	w.planID = 0
	w.errMsg = ""
	w.raw = nil
}
