// Package poller runs a single function on a periodic schedule with
// panic recovery and adaptive backoff.
package poller

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/jrazmi/taskdeck/sdk/environment"
	"github.com/jrazmi/taskdeck/sdk/logger"
)

// RunFunc is the unit of work the poller executes on each tick.
type RunFunc func(ctx context.Context) error

// Options represents the exportable poller configuration
type Options struct {
	Name         string        `env:"POLLER_NAME" default:"poller"`
	Interval     time.Duration `env:"POLLER_INTERVAL" default:"30s"`
	IdleInterval time.Duration `env:"POLLER_IDLE_INTERVAL" default:"2m"`
}

// options holds the internal runtime configuration
type options struct {
	name         string
	interval     time.Duration
	idleInterval time.Duration
	log          *logger.Logger
}

// Option is a function that configures the poller options
type Option func(*options)

// WithName sets the poller name used in log entries.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithInterval sets how often the run function fires.
func WithInterval(interval time.Duration) Option {
	return func(o *options) {
		o.interval = interval
	}
}

// WithIdleInterval sets how long to wait after a failed run.
func WithIdleInterval(interval time.Duration) Option {
	return func(o *options) {
		o.idleInterval = interval
	}
}

// WithLogger sets a custom logger
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Poller executes a RunFunc on a ticker. A failed run switches the ticker
// to the idle interval until a run succeeds again.
type Poller struct {
	name         string
	run          RunFunc
	interval     time.Duration
	idleInterval time.Duration
	log          *logger.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	kick       chan struct{}
	startMutex sync.Mutex
	stopMutex  sync.Mutex
	running    bool
}

// NewFromEnv creates a poller using environment variables.
func NewFromEnv(prefix string, run RunFunc, opts ...Option) (*Poller, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing poller config: %w", err)
	}
	return newPoller(run, cfg, opts...), nil
}

// New creates a poller with the given name and interval.
func New(name string, interval time.Duration, run RunFunc, opts ...Option) *Poller {
	cfg := Options{
		Name:         name,
		Interval:     interval,
		IdleInterval: 4 * interval,
	}
	return newPoller(run, cfg, opts...)
}

func newPoller(run RunFunc, cfg Options, opts ...Option) *Poller {
	internalOpts := &options{
		name:         cfg.Name,
		interval:     cfg.Interval,
		idleInterval: cfg.IdleInterval,
	}

	for _, opt := range opts {
		opt(internalOpts)
	}

	if internalOpts.log == nil {
		internalOpts.log = logger.NewDefault()
	}
	if internalOpts.interval <= 0 {
		internalOpts.interval = 30 * time.Second
	}
	if internalOpts.idleInterval < internalOpts.interval {
		internalOpts.idleInterval = internalOpts.interval
	}

	return &Poller{
		name:         internalOpts.name,
		run:          run,
		interval:     internalOpts.interval,
		idleInterval: internalOpts.idleInterval,
		log:          internalOpts.log,
		kick:         make(chan struct{}, 1),
	}
}

// Start launches the polling loop. It returns immediately; the loop runs
// until Stop is called or the parent context is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.startMutex.Lock()
	defer p.startMutex.Unlock()

	if p.running {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.running = true

	p.log.InfoContext(ctx, "starting poller", "name", p.name, "interval", p.interval)

	go p.loop()
}

// Stop cancels the loop and waits for the in-flight run to finish.
func (p *Poller) Stop() {
	p.stopMutex.Lock()
	defer p.stopMutex.Unlock()

	if !p.running {
		return
	}

	p.cancel()
	<-p.done
	p.running = false

	p.log.InfoContext(context.Background(), "poller stopped", "name", p.name)
}

// Kick asks the poller to run ahead of schedule. The nudge is dropped if
// one is already pending.
func (p *Poller) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller) loop() {
	defer close(p.done)

	currentInterval := p.interval
	ticker := time.NewTicker(currentInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return

		case <-p.kick:
		case <-ticker.C:
		}

		err := p.runWithRecovery(p.ctx)

		var newInterval time.Duration
		if err != nil {
			newInterval = p.idleInterval
			if p.ctx.Err() == nil {
				p.log.ErrorContext(p.ctx, "poller run failed",
					"name", p.name,
					"err", err)
			}
		} else {
			newInterval = p.interval
		}

		if newInterval != currentInterval {
			currentInterval = newInterval
			ticker.Reset(newInterval)
		}
	}
}

func (p *Poller) runWithRecovery(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.ErrorContext(ctx, "panic recovered in poller",
				"name", p.name,
				"panic", r,
				"stack_trace", string(debug.Stack()))
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()

	return p.run(ctx)
}
