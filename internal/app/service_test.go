package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeService struct {
	name     string
	startErr error
	block    bool

	mu      sync.Mutex
	stopped bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeService) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	boom := errors.New("boom")
	failing := &fakeService{name: "failing", startErr: boom}
	blocking := &fakeService{name: "blocking", block: true}

	var hooks []string
	runner := NewRunner(failing, blocking)
	runner.OnShutdown("first", func(context.Context) error {
		hooks = append(hooks, "first")
		return nil
	})
	runner.OnShutdown("second", func(context.Context) error {
		hooks = append(hooks, "second")
		return errors.New("ignored")
	})

	err := runner.Run(context.Background(), time.Second, zap.NewNop().Sugar())
	if !errors.Is(err, boom) {
		t.Fatalf("run error want boom got %v", err)
	}
	if !failing.isStopped() || !blocking.isStopped() {
		t.Fatalf("all services should be stopped")
	}
	if len(hooks) != 2 || hooks[0] != "first" || hooks[1] != "second" {
		t.Fatalf("shutdown hooks want [first second] got %v", hooks)
	}
}

func TestRunnerCanceledContextReturnsNil(t *testing.T) {
	blocking := &fakeService{name: "blocking", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewRunner(blocking).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("canceled run should return nil, got %v", err)
	}
	if !blocking.isStopped() {
		t.Fatalf("service should be stopped")
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should return error")
	}
}
