package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"decorstudio/internal/events"
	"decorstudio/internal/llm"
	"decorstudio/internal/media"
	"decorstudio/internal/metrics"
	"decorstudio/internal/session"
)

var (
	// ErrNoPhoto is returned when a makeover is requested without image bytes.
	ErrNoPhoto = errors.New("pipeline: no photo to analyze")
	// ErrNoRendering is returned when item removal has no image to work on.
	ErrNoRendering = errors.New("pipeline: no rendering to edit")
	// ErrNoItems is returned when item removal names nothing to remove.
	ErrNoItems = errors.New("pipeline: no items to remove")
)

// Publisher receives UI events.
type Publisher interface {
	Publish(evt events.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}

// Options tune an Orchestrator. Zero values take the defaults.
type Options struct {
	// Timeout bounds every run from start to finish.
	Timeout time.Duration
	Logger  zerolog.Logger
	Events  Publisher
	// Media resolves renderings stored locally so they can be sent inline.
	Media   media.Opener
}

// Orchestrator runs the studio workflows against one session. Every run
// executes on its own goroutine and writes only its own slice of the store.
// Each target has at most one live run: issuing a new one cancels the
// previous, and the store keeps the result of the most recently issued run.
type Orchestrator struct {
	client  llm.Client
	store   *session.Store
	media   media.Opener
	events  Publisher
	logger  zerolog.Logger
	timeout time.Duration
	now     func() time.Time

	seq  atomic.Uint64
	mu   sync.Mutex
	live map[string]liveRun
	wg   sync.WaitGroup
}

type liveRun struct {
	seq    uint64
	cancel context.CancelFunc
}

// New constructs an orchestrator for client and store.
func New(client llm.Client, store *session.Store, opts Options) *Orchestrator {
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	if opts.Events == nil {
		opts.Events = nopPublisher{}
	}
	return &Orchestrator{
		client:  client,
		store:   store,
		media:   opts.Media,
		events:  opts.Events,
		logger:  opts.Logger.With().Str("component", "pipeline").Logger(),
		timeout: opts.Timeout,
		now:     func() time.Time { return time.Now().UTC() },
		live:    make(map[string]liveRun),
	}
}

// Shutdown cancels every live run and waits for all of them to settle.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	for _, lr := range o.live {
		lr.cancel()
	}
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runState is the bookkeeping of one run while it executes.
type runState struct {
	o      *Orchestrator
	ctx    context.Context
	cancel context.CancelFunc
	run    session.Run
	logger zerolog.Logger
}

// begin issues a run for target. The run's context is detached from the
// caller so the run outlives the request that started it.
func (o *Orchestrator) begin(ctx context.Context, target session.Target, stage session.Stage) *runState {
	run := session.Run{
		ID:        uuid.NewString(),
		Seq:       o.seq.Add(1),
		Target:    target,
		Status:    session.StatusRunning,
		Stage:     stage,
		StartedAt: o.now(),
	}
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)

	key := target.String()
	o.mu.Lock()
	if prev, ok := o.live[key]; ok {
		prev.cancel()
	}
	o.live[key] = liveRun{seq: run.Seq, cancel: cancel}
	o.mu.Unlock()

	o.wg.Add(1)
	metrics.WorkflowRunsInFlight.WithLabelValues(string(target.Kind)).Inc()

	r := &runState{
		o:      o,
		ctx:    runCtx,
		cancel: cancel,
		run:    run,
		logger: o.logger.With().Str("run_id", run.ID).Str("target", key).Uint64("seq", run.Seq).Logger(),
	}
	r.logger.Info().Str("stage", string(stage)).Msg("run started")
	return r
}

// advance moves the run to a new display stage.
func (r *runState) advance(stage session.Stage) session.Run {
	r.run.Stage = stage
	r.logger.Debug().Str("stage", string(stage)).Msg("run stage")
	r.o.events.Publish(events.Event{
		Name:   events.Stage,
		Target: r.run.Target.String(),
		RunID:  r.run.ID,
		Stage:  stage,
		Status: r.run.Status,
	})
	return r.run
}

func (r *runState) succeed() session.Run {
	finished := r.o.now()
	r.run.Status = session.StatusSucceeded
	r.run.FinishedAt = &finished
	r.run.Failure = nil
	return r.run
}

func (r *runState) fail(f *session.Failure) session.Run {
	finished := r.o.now()
	r.run.Status = session.StatusFailed
	r.run.FinishedAt = &finished
	r.run.Failure = f
	if f != nil && f.Stage != "" {
		r.run.Stage = f.Stage
	}
	return r.run
}

// end releases the run's slot and reports the outcome.
func (r *runState) end(committed bool) {
	defer r.o.wg.Done()
	r.cancel()

	key := r.run.Target.String()
	r.o.mu.Lock()
	if lr, ok := r.o.live[key]; ok && lr.seq == r.run.Seq {
		delete(r.o.live, key)
	}
	r.o.mu.Unlock()

	kind := string(r.run.Target.Kind)
	metrics.WorkflowRunsInFlight.WithLabelValues(kind).Dec()
	metrics.WorkflowRunsTotal.WithLabelValues(kind, string(r.run.Status)).Inc()
	metrics.WorkflowRunDuration.WithLabelValues(kind).Observe(time.Since(r.run.StartedAt).Seconds())

	if !committed {
		metrics.WorkflowSupersededTotal.WithLabelValues(kind).Inc()
		r.logger.Info().Str("status", string(r.run.Status)).Msg("run superseded, result dropped")
		return
	}

	evt := events.Event{
		Name:   events.Success,
		Target: key,
		RunID:  r.run.ID,
		Stage:  r.run.Stage,
		Status: r.run.Status,
	}
	if r.run.Failure != nil {
		evt.Name = events.Error
		evt.Message = r.run.Failure.Message
		r.logger.Warn().
			Str("kind", string(r.run.Failure.Kind)).
			Str("stage", string(r.run.Failure.Stage)).
			Int("status", r.run.Failure.Status).
			Str("message", r.run.Failure.Message).
			Msg("run failed")
	} else {
		r.logger.Info().Msg("run succeeded")
	}
	r.o.events.Publish(evt)
}

// launch issues a run for target and executes body on its own goroutine.
// running builds the slice value for a given run state; it is committed
// immediately so the target shows as running. Body returns the settled value.
func launch[T any](
	ctx context.Context,
	o *Orchestrator,
	target session.Target,
	stage session.Stage,
	running func(session.Run) T,
	commit func(T) bool,
	body func(r *runState) T,
) *Task[T] {
	r := o.begin(ctx, target, stage)
	commit(running(r.run))
	o.events.Publish(events.Event{
		Name:   events.Generate,
		Target: target.String(),
		RunID:  r.run.ID,
		Stage:  stage,
		Status: session.StatusRunning,
	})

	task := newTask[T](r.run)
	go func() {
		var (
			result    T
			committed bool
		)
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error().Interface("panic", p).Msg("run panicked")
				result = running(r.fail(&session.Failure{
					Kind:    session.FailureTransport,
					Stage:   r.run.Stage,
					Message: fmt.Sprintf("internal error: %v", p),
				}))
				committed = commit(result)
			}
			r.end(committed)
			task.finish(result, committed)
		}()

		result = body(r)
		committed = commit(result)
	}()
	return task
}
