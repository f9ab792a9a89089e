package service

import (
	"context"
	"log/slog"
	"sync"

	apperrors "github.com/kinebilan/mobile-core/internal/errors"
	"github.com/kinebilan/mobile-core/internal/ports"
)

// Default prompt copy for executor-surfaced failures and confirmations.
const (
	DefaultErrorTitle   = "Error"
	DefaultErrorMessage = "Something went wrong while contacting the server."

	DefaultConfirmTitle   = "Confirmation"
	DefaultConfirmMessage = "Are you sure you want to perform this action?"
	DefaultConfirmLabel   = "Yes"
	DefaultCancelLabel    = "No"
)

// RequestState is the per-executor UI bookkeeping: busy indicators and the
// last error. Loading and Refreshing are never both true for the same call.
type RequestState struct {
	Loading    bool
	Refreshing bool
	Err        error
}

// Busy reports whether either indicator is set.
func (s RequestState) Busy() bool { return s.Loading || s.Refreshing }

// Call is a zero-argument producer of a backend response.
type Call func(ctx context.Context) (any, error)

// ExecOptions configures a single Execute invocation.
type ExecOptions struct {
	// Refresh routes the busy indicator to Refreshing instead of Loading, so
	// a screen can distinguish an initial-load spinner from pull-to-refresh.
	Refresh bool

	// ShowErrors controls whether failures surface a user-facing prompt.
	// Defaults to true; a server-supplied rejection message overrides
	// ErrorMessage when present.
	ShowErrors *bool

	ErrorTitle   string
	ErrorMessage string

	// OnSuccess and OnError run after the state update.
	OnSuccess func(response any)
	OnError   func(err error)

	// DiscardStale opts into sequence-stamped convergence: a completion that
	// is no longer the executor's latest call skips all state writes, prompts,
	// and callbacks. The default (false) keeps last-write-wins, where a slow
	// first response can transiently overwrite a faster second one.
	DiscardStale bool
}

func (o ExecOptions) showErrors() bool {
	return o.ShowErrors == nil || *o.ShowErrors
}

// ExecutorOptions groups dependencies for Executor.
type ExecutorOptions struct {
	Prompter ports.Prompter
	Logger   *slog.Logger
}

// Executor wraps arbitrary backend calls with standardized
// loading/refreshing/error state for one call site. Screens build one per
// flow; there is no built-in cancellation, so overlapping calls both run to
// completion (see ExecOptions.DiscardStale).
type Executor struct {
	prompter ports.Prompter
	logger   *slog.Logger

	mu    sync.Mutex
	state RequestState
	seq   uint64
}

// NewExecutor constructs an idle Executor.
func NewExecutor(opts ExecutorOptions) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{prompter: opts.Prompter, logger: logger}
}

// State returns a snapshot of the current bookkeeping.
func (e *Executor) State() RequestState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Seq returns the sequence number of the most recent Execute call.
func (e *Executor) Seq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// begin clears any previous error, raises the requested busy indicator, and
// stamps the call with a fresh sequence number.
func (e *Executor) begin(refresh bool) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	e.state.Err = nil
	e.state.Loading = !refresh
	e.state.Refreshing = refresh
	return e.seq
}

// finish lowers both busy indicators. When onlyIfCurrent is set, a superseded
// call leaves the indicators to its successor.
func (e *Executor) finish(seq uint64, onlyIfCurrent bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if onlyIfCurrent && e.seq != seq {
		return
	}
	e.state.Loading = false
	e.state.Refreshing = false
}

func (e *Executor) setErr(err error) {
	e.mu.Lock()
	e.state.Err = err
	e.mu.Unlock()
}

func (e *Executor) isCurrent(seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq == seq
}

// Execute runs call with standardized state handling: the busy indicator is
// raised per opts.Refresh, and whatever happens it is lowered again when the
// call settles, so a failed call can never leave the UI permanently busy.
// Failures are recorded in State().Err, optionally surfaced through the
// prompter, handed to OnError, and returned as an ordinary error value.
func (e *Executor) Execute(ctx context.Context, call Call, opts ExecOptions) (any, error) {
	seq := e.begin(opts.Refresh)
	defer e.finish(seq, opts.DiscardStale)

	response, err := call(ctx)

	if opts.DiscardStale && !e.isCurrent(seq) {
		// A newer call superseded this one; drop the result on the floor.
		return nil, apperrors.InProgress("superseded by a newer request")
	}

	if err != nil {
		e.setErr(err)
		e.logger.DebugContext(ctx, "request failed", "error", err)

		if opts.showErrors() {
			title := opts.ErrorTitle
			if title == "" {
				title = DefaultErrorTitle
			}
			message := opts.ErrorMessage
			if message == "" {
				message = DefaultErrorMessage
			}
			if e.prompter != nil {
				e.prompter.Alert(title, apperrors.UserMessage(err, message))
			}
		}
		if opts.OnError != nil {
			opts.OnError(err)
		}
		return nil, err
	}

	if opts.OnSuccess != nil {
		opts.OnSuccess(response)
	}
	return response, nil
}

// ConfirmOptions configures a confirmation prompt gating a destructive
// action. Zero values fall back to the default copy.
type ConfirmOptions struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	OnConfirm    func()
	OnCancel     func()
}

// Confirm presents a confirmation prompt and dispatches the user's choice.
// It is a pure prompt-and-dispatch: callers compose it with Execute for the
// guarded call itself.
func (e *Executor) Confirm(opts ConfirmOptions) {
	req := ports.ConfirmationRequest{
		Title:        opts.Title,
		Message:      opts.Message,
		ConfirmLabel: opts.ConfirmLabel,
		CancelLabel:  opts.CancelLabel,
		OnConfirm:    opts.OnConfirm,
		OnCancel:     opts.OnCancel,
	}
	if req.Title == "" {
		req.Title = DefaultConfirmTitle
	}
	if req.Message == "" {
		req.Message = DefaultConfirmMessage
	}
	if req.ConfirmLabel == "" {
		req.ConfirmLabel = DefaultConfirmLabel
	}
	if req.CancelLabel == "" {
		req.CancelLabel = DefaultCancelLabel
	}
	if e.prompter != nil {
		e.prompter.Confirm(req)
	}
}
