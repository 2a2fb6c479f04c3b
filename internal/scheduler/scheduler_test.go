package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestScheduleRejectsInvalidExpression(t *testing.T) {
	s := NewScheduler(quietLogger())

	_, err := s.Schedule("predict", "every minute", time.Minute, func(ctx context.Context) error { return nil })
	assert.Error(t, err)
	assert.Empty(t, s.Entries())
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(quietLogger())
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestJobRunsWithDeadline(t *testing.T) {
	s := NewScheduler(quietLogger())

	var calls int
	var hadDeadline bool
	_, err := s.Schedule("predict", "*/5 * * * *", time.Minute, func(ctx context.Context) error {
		calls++
		_, hadDeadline = ctx.Deadline()
		return errors.New("no lap data")
	})
	require.NoError(t, err)

	entries := s.Entries()
	require.Len(t, entries, 1)

	// failures are logged and the job stays scheduled
	entries[0].WrappedJob.Run()
	entries[0].WrappedJob.Run()
	assert.Equal(t, 2, calls)
	assert.True(t, hadDeadline)
	assert.Len(t, s.Entries(), 1)
}

func TestLifecycle(t *testing.T) {
	s := NewScheduler(quietLogger())
	_, err := s.Schedule("predict", "0 * * * *", time.Minute, func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())

	_, err = s.Schedule("other", "0 * * * *", time.Minute, func(ctx context.Context) error { return nil })
	assert.Error(t, err, "jobs cannot be added while running")

	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.Equal(t, 0, next.Minute())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop())
}
