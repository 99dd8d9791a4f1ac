package warmup_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shortlink/internal/domain/models"
	"shortlink/internal/mocks"
	"shortlink/internal/warmup"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestValidateCron(t *testing.T) {
	def := warmup.DefaultScheduleConfig()
	for _, spec := range []string{def.HotLinksCron, def.RecentCron, def.FullCron, def.CleanupCron, def.FilterRebuildCron, "@every 5s"} {
		assert.NoError(t, warmup.ValidateCron(spec), spec)
	}

	for _, spec := range []string{"", "0 * * * *", "61 0 * * * *", "every hour"} {
		assert.Error(t, warmup.ValidateCron(spec), spec)
	}
}

func TestNewScheduler_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockJobExecutor(ctrl)

	tests := []struct {
		name   string
		mutate func(*warmup.ScheduleConfig)
	}{
		{name: "bad hot links cron", mutate: func(c *warmup.ScheduleConfig) { c.HotLinksCron = "whenever" }},
		{name: "bad cleanup cron", mutate: func(c *warmup.ScheduleConfig) { c.CleanupCron = "* * *" }},
		{name: "full limit out of range", mutate: func(c *warmup.ScheduleConfig) { c.FullLimit = warmup.MaxLimit + 1 }},
		{name: "batch size out of range", mutate: func(c *warmup.ScheduleConfig) { c.BatchSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := warmup.DefaultScheduleConfig()
			tt.mutate(&cfg)
			_, err := warmup.NewScheduler(cfg, exec, zerolog.Nop())
			assert.Error(t, err)
		})
	}
}

func TestScheduler_DisabledSubmitsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockJobExecutor(ctrl)

	cfg := warmup.DefaultScheduleConfig()
	cfg.Enabled = false
	cfg.HotLinksCron = "* * * * * *"
	cfg.StartupDelay = time.Millisecond

	s, err := warmup.NewScheduler(cfg, exec, zerolog.Nop())
	require.NoError(t, err)

	s.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	<-s.Stop().Done()
}

func TestScheduler_StartupWarmup(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockJobExecutor(ctrl)

	submitted := make(chan warmup.Request, 1)
	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req warmup.Request) (*warmup.Job, error) {
			submitted <- req
			return &warmup.Job{ID: "startup", Status: warmup.StatusRunning}, nil
		})

	cfg := warmup.ScheduleConfig{
		Enabled:       true,
		HotLinksLimit: 250,
		StartupDelay:  10 * time.Millisecond,
	}

	s, err := warmup.NewScheduler(cfg, exec, zerolog.Nop())
	require.NoError(t, err)
	s.Start(context.Background())
	defer func() { <-s.Stop().Done() }()

	select {
	case req := <-submitted:
		assert.Equal(t, models.StrategyHotLinks, req.Strategy)
		assert.Equal(t, 250, req.Limit)
		assert.True(t, req.Async)
	case <-time.After(2 * time.Second):
		t.Fatal("startup warmup was not submitted")
	}
}

func TestScheduler_CronTriggers(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockJobExecutor(ctrl)

	full := make(chan warmup.Request, 8)
	cleaned := make(chan struct{}, 8)
	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req warmup.Request) (*warmup.Job, error) {
			full <- req
			return &warmup.Job{ID: "full"}, nil
		}).AnyTimes()
	exec.EXPECT().CleanupCompleted().
		DoAndReturn(func() int {
			cleaned <- struct{}{}
			return 0
		}).AnyTimes()

	cfg := warmup.ScheduleConfig{
		Enabled:     true,
		FullCron:    "* * * * * *",
		CleanupCron: "* * * * * *",
		FullLimit:   5000,
		BatchSize:   50,
	}
	s, err := warmup.NewScheduler(cfg, exec, zerolog.Nop())
	require.NoError(t, err)
	s.Start(context.Background())
	defer func() { <-s.Stop().Done() }()

	select {
	case req := <-full:
		assert.Equal(t, models.StrategyFullWarmup, req.Strategy)
		assert.Equal(t, 5000, req.Limit)
		assert.Equal(t, 50, req.BatchSize)
		assert.True(t, req.Async)
	case <-time.After(3 * time.Second):
		t.Fatal("full warmup did not fire")
	}

	select {
	case <-cleaned:
	case <-time.After(3 * time.Second):
		t.Fatal("cleanup did not fire")
	}
}

func TestScheduler_RejectedSubmissionIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockJobExecutor(ctrl)

	called := make(chan struct{}, 1)
	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, warmup.Request) (*warmup.Job, error) {
			called <- struct{}{}
			return nil, warmup.ErrQueueFull
		})

	cfg := warmup.ScheduleConfig{Enabled: true, StartupDelay: time.Millisecond}
	s, err := warmup.NewScheduler(cfg, exec, zerolog.Nop())
	require.NoError(t, err)
	s.Start(context.Background())
	defer func() { <-s.Stop().Done() }()

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("startup warmup was not attempted")
	}
}

func TestScheduler_AddTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockJobExecutor(ctrl)

	s, err := warmup.NewScheduler(warmup.ScheduleConfig{}, exec, zerolog.Nop())
	require.NoError(t, err)

	assert.Error(t, s.AddTask("broken", "not a cron", func(context.Context) error { return nil }))

	type key struct{}
	ran := make(chan context.Context, 8)
	require.NoError(t, s.AddTask("rebuild", "* * * * * *", func(ctx context.Context) error {
		ran <- ctx
		return errors.New("scan aborted")
	}))

	ctx := context.WithValue(context.Background(), key{}, "run")
	s.Start(ctx)
	defer func() { <-s.Stop().Done() }()

	select {
	case got := <-ran:
		assert.Equal(t, "run", got.Value(key{}), "task receives the Start context")
	case <-time.After(3 * time.Second):
		t.Fatal("task did not fire while warmups are disabled")
	}
}
