package event

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Handler processes an event synchronously.
type Handler func(ctx context.Context, e Event) error

// AsyncHandler is a Handler variant registered through SubscribeAsync; its
// error triggers the retry-then-error-handler path instead of propagating.
type AsyncHandler func(ctx context.Context, e Event) error

// Options configures how a subscription filters and delivers events.
type Options struct {
	Async          bool
	MinSeverity    Severity
	Categories     []Category
	RequiredTags   []string
	MaxRetries     int
	RetryDelay     time.Duration
	Context        context.Context
}

func (o Options) categoryAllowed(c Category) bool {
	if len(o.Categories) == 0 {
		return true
	}
	for _, want := range o.Categories {
		if want == c {
			return true
		}
	}
	return false
}

func (o Options) tagsSatisfied(tags []string) bool {
	for _, want := range o.RequiredTags {
		if !containsStr(tags, want) {
			return false
		}
	}
	return true
}

// subscription is the emitter's internal bookkeeping record for one
// registered handler.
type subscription struct {
	id      string
	pattern string
	filter  Expr
	handler Handler
	async   bool
	opts    Options
	active  atomic.Bool
}

func newSubscription(pattern string, handler Handler, filter Expr, opts Options, async bool) *subscription {
	s := &subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		filter:  filter,
		handler: handler,
		async:   async,
		opts:    opts,
	}
	s.active.Store(true)
	return s
}

// matches reports whether e should be delivered to s: pattern match, then
// severity floor, then category membership, then required tags, then the
// optional filter expression — evaluated in that order per the emitter's
// filter-after-pattern contract.
func (s *subscription) matches(e Event) bool {
	if !s.active.Load() {
		return false
	}
	if !MatchesPattern(e.Name(), s.pattern) {
		return false
	}
	if e.Severity() < s.opts.MinSeverity {
		return false
	}
	if !s.opts.categoryAllowed(e.Category()) {
		return false
	}
	if !s.opts.tagsSatisfied(e.Metadata().Tags) {
		return false
	}
	if s.filter != nil && !s.filter.Evaluate(e) {
		return false
	}
	return true
}
