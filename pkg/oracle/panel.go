// Package oracle orchestrates the query/response cycle between user free
// text, a context summary, and the external AI collaborator.
//
// The Panel is the single owner of the AI round-trip: at most one request
// is in flight per panel, further submissions are rejected until
// settlement, and panel teardown cancels a pending request rather than
// applying a stale result to a disposed renderer. Collaborator failures
// become visible transcript entries; they never propagate past the panel
// and are never retried automatically.
package oracle

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphgazer/graphgazer/pkg/cache"
	"github.com/graphgazer/graphgazer/pkg/errors"
	"github.com/graphgazer/graphgazer/pkg/observability"
)

// EntryKind discriminates transcript entries.
type EntryKind string

const (
	EntryUser   EntryKind = "user"
	EntryOracle EntryKind = "oracle"
	EntryError  EntryKind = "error"
)

// Entry is one transcript line.
type Entry struct {
	Kind EntryKind
	Text string
	Time time.Time
}

// Panel owns the oracle conversation for one scene.
type Panel struct {
	mu sync.Mutex

	collab Collaborator
	caps   Capabilities
	cache  cache.Cache
	logger *log.Logger

	transcript []Entry
	actions    []Action // suggestions from the latest settled response
	inflight   bool
	closed     bool
	cancel     context.CancelFunc

	// notify, when set, is called after every transcript change so a UI
	// can redraw. Called with the panel lock released.
	notify func()
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

// WithCache enables response caching. Defaults to no caching.
func WithCache(c cache.Cache) PanelOption {
	return func(p *Panel) { p.cache = c }
}

// WithPanelLogger sets the panel's logger. Defaults to log.Default().
func WithPanelLogger(l *log.Logger) PanelOption {
	return func(p *Panel) { p.logger = l }
}

// WithNotify registers a redraw callback fired after transcript changes.
func WithNotify(fn func()) PanelOption {
	return func(p *Panel) { p.notify = fn }
}

// NewPanel creates a panel driving caps with answers from collab.
func NewPanel(collab Collaborator, caps Capabilities, opts ...PanelOption) *Panel {
	p := &Panel{
		collab: collab,
		caps:   caps,
		cache:  cache.NewNullCache(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ask submits a query with the given context summary. The round-trip runs
// asynchronously; the transcript settles with either an oracle entry
// (suggested actions applied through the capability API) or an error
// entry.
//
// Returns ErrCodeOracleBusy while a previous request is unsettled and
// ErrCodeOracle on a closed panel.
func (p *Panel) Ask(ctx context.Context, query, contextSummary string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errors.New(errors.ErrCodeOracle, "panel is closed")
	}
	if p.inflight {
		p.mu.Unlock()
		return errors.New(errors.ErrCodeOracleBusy, "a query is already in flight")
	}
	p.inflight = true
	p.actions = nil
	p.transcript = append(p.transcript, Entry{Kind: EntryUser, Text: query, Time: time.Now()})

	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	p.emit()
	go p.run(ctx, query, contextSummary)
	return nil
}

// run performs one round-trip and settles the panel.
func (p *Panel) run(ctx context.Context, query, contextSummary string) {
	observability.Oracle().OnQueryStart(ctx, len(contextSummary))
	start := time.Now()

	resp, err := p.explain(ctx, query, contextSummary)

	observability.Oracle().OnQueryComplete(ctx, time.Since(start), len(resp.SuggestedActions), err)

	p.mu.Lock()
	if p.closed {
		// Torn down while pending: abandon the result entirely.
		p.mu.Unlock()
		return
	}
	p.inflight = false
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	if err != nil {
		p.transcript = append(p.transcript, Entry{
			Kind: EntryError,
			Text: errors.UserMessage(err),
			Time: time.Now(),
		})
		p.mu.Unlock()
		p.logger.Warn("oracle query failed", "err", err)
		p.emit()
		return
	}

	p.transcript = append(p.transcript, Entry{Kind: EntryOracle, Text: resp.Explanation, Time: time.Now()})
	p.actions = resp.SuggestedActions
	p.mu.Unlock()
	p.emit()
}

// explain resolves the response, consulting the cache first.
func (p *Panel) explain(ctx context.Context, query, contextSummary string) (Response, error) {
	key := cache.OracleKey(query, contextSummary)
	if data, hit, err := p.cache.Get(ctx, key); err == nil && hit {
		var resp Response
		if json.Unmarshal(data, &resp) == nil {
			return resp, nil
		}
	}

	resp, err := p.collab.Explain(ctx, Request{Query: query, Context: contextSummary})
	if err != nil {
		return Response{}, err
	}

	if data, merr := json.Marshal(resp); merr == nil {
		_ = p.cache.Set(ctx, key, data, cache.DefaultTTL)
	}
	return resp, nil
}

// Actions returns the suggestions of the latest settled response.
func (p *Panel) Actions() []Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Action, len(p.actions))
	copy(out, p.actions)
	return out
}

// Apply executes one suggested action through the capability API. The
// caller must invoke it from the event loop that owns the scene.
// Unknown action types are skipped with a log line, never an error.
func (p *Panel) Apply(a Action) {
	if p.caps == nil {
		return
	}
	switch a.Type {
	case ActionFocusNode:
		p.caps.FocusNode(a.Params["node_id"])
	case ActionFilterCluster:
		p.caps.FilterCluster(a.Params["cluster"])
	case ActionResetView:
		p.caps.ResetView()
	default:
		p.logger.Debug("skipping unknown suggested action", "type", a.Type)
	}
}

// Busy reports whether a request is in flight.
func (p *Panel) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight
}

// Transcript returns a copy of the transcript.
func (p *Panel) Transcript() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Entry, len(p.transcript))
	copy(out, p.transcript)
	return out
}

// Close tears the panel down, cancelling any pending request. A result
// that settles after Close is discarded. Close is idempotent.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Panel) emit() {
	if p.notify != nil {
		p.notify()
	}
}
