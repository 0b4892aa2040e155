// Package composer holds the client-side state of the post composer: the
// draft being written, its submission and validation status, the list of
// posts and a transient error banner. The UI reads state through Snapshot
// and Subscribe and changes it only through the store's intents.
package composer

import (
	"context"
	"errors"
	"sync"
	"time"

	"iambic/iambic"
	"iambic/logger"
)

const DefaultErrorDisplay = 3 * time.Second

var ErrClosed = errors.New("composer: store closed")

// PostAPI is the backend the store talks to; *apiclient.Client is one.
type PostAPI interface {
	ListPosts(ctx context.Context) ([]iambic.Post, error)
	CreatePost(ctx context.Context, body string) (iambic.Post, error)
	ValidatePost(ctx context.Context, body string) ([]iambic.ValidationResult, error)
}

type Options struct {
	// ErrorDisplay is how long an error banner stays up. Defaults to
	// DefaultErrorDisplay.
	ErrorDisplay time.Duration
	// ValidateDebounce, when positive, validates the draft once typing has
	// paused this long.
	ValidateDebounce time.Duration
}

type intent string

const (
	intentSubmit   intent = "submit"
	intentValidate intent = "validate"
	intentFetch    intent = "fetch"
)

type Store struct {
	api  PostAPI
	opts Options

	// ctx ends when the store is closed; every request context derives
	// from it as well as from the caller's.
	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	mu     sync.Mutex
	state  State
	closed bool

	// latest is the newest request id issued per intent. Completions
	// carrying an older id are discarded.
	latest map[intent]uint64

	sending        int // submissions in flight
	validating     bool
	validatingBody string

	bannerGen uint64
	dismiss   *time.Timer
	debounce  *time.Timer

	subscribers map[int]chan struct{}
	nextSub     int
}

func NewStore(api PostAPI, opts Options) *Store {
	if opts.ErrorDisplay <= 0 {
		opts.ErrorDisplay = DefaultErrorDisplay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		api:         api,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		latest:      make(map[intent]uint64),
		subscribers: make(map[int]chan struct{}),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe returns a channel that receives a value after state changes.
// Notifications coalesce: a reader that falls behind sees one pending
// value, then calls Snapshot. The channel is closed by the returned
// function or by Close.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
}

func (s *Store) notifyLocked() {
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close cancels in-flight requests, stops timers, waits for running tasks
// and closes subscriber channels. Intents called afterwards fail with
// ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.dismiss != nil {
		s.dismiss.Stop()
		s.dismiss = nil
	}
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	s.mu.Unlock()

	s.cancel()
	s.tasks.Wait()

	s.mu.Lock()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
	s.mu.Unlock()
}

// startLocked runs fn in a tracked goroutine. Callers hold s.mu and have
// checked s.closed.
func (s *Store) startLocked(ctx context.Context, fn func(ctx context.Context) error) *Task {
	tctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	t := newTask(cancel)

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		defer cancel()
		defer stop()
		t.finish(fn(tctx))
	}()
	return t
}

// UpdateBody replaces the draft text. With a debounce configured it also
// schedules validation of the draft.
func (s *Store) UpdateBody(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state.WorkingPost.Body == body {
		return
	}
	s.state = updateBody(s.state, body)
	s.notifyLocked()

	if s.opts.ValidateDebounce > 0 {
		if s.debounce != nil {
			s.debounce.Stop()
		}
		s.debounce = time.AfterFunc(s.opts.ValidateDebounce, func() {
			s.ValidatePost(s.ctx)
		})
	}
}

// displayable filters out failures the user caused by cancelling.
func displayable(err error) bool {
	return !errors.Is(err, context.Canceled)
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "something went wrong"
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case !displayable(err):
		return "canceled"
	default:
		return "error"
	}
}

func logFailure(in intent, err error) {
	if !displayable(err) {
		logger.Log.Debug("request canceled", "component", "composer", "intent", string(in))
		return
	}
	logger.Log.Warn("request failed", "component", "composer", "intent", string(in), "error", err)
}
