// Package scheduler runs named maintenance jobs on fixed intervals while the
// web server is up.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rubiojr/ssworld/pkg/log"
)

// JobFunc is one run of a job. Errors are logged; the job keeps its schedule.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	run      JobFunc
}

type Scheduler struct {
	jobs      []job
	logger    *log.Logger
	ctxCancel context.CancelFunc
	mu        sync.Mutex
	wg        sync.WaitGroup
	running   bool
}

func New() *Scheduler {
	return &Scheduler{logger: log.ForService("scheduler")}
}

// Add registers a job. An interval of zero or less registers it as
// disabled: it can still run through RunOnce but is never scheduled.
func (s *Scheduler) Add(name string, interval time.Duration, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler is already running")
	}
	for _, j := range s.jobs {
		if j.name == name {
			return fmt.Errorf("job %s already registered", name)
		}
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: fn})
	return nil
}

// Start launches one goroutine per enabled job. Jobs first run after one
// interval, not immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler is already running")
	}

	ctx, s.ctxCancel = context.WithCancel(ctx)
	s.running = true

	for _, j := range s.jobs {
		if j.interval <= 0 {
			s.logger.Debugf("job %s: disabled", j.name)
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, j)
		s.logger.Infof("job %s: every %v", j.name, j.interval)
	}
	return nil
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runJob(ctx, j)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, j job) error {
	start := time.Now()
	if err := j.run(ctx); err != nil {
		s.logger.Errorf("job %s failed: %v", j.name, err)
		return fmt.Errorf("job %s: %w", j.name, err)
	}
	s.logger.Debugf("job %s finished in %v", j.name, time.Since(start))
	return nil
}

// RunOnce runs every registered job, enabled or not, in registration order
// and returns the joined errors.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]job(nil), s.jobs...)
	s.mu.Unlock()

	var errs []error
	for _, j := range jobs {
		if err := s.runJob(ctx, j); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.ctxCancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
