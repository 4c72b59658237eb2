package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceScheduler_Register(t *testing.T) {
	s := NewMaintenanceScheduler(logrus.New(), nil)
	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, s.Register("expire", "@every 15m", noop))
	require.NoError(t, s.Register("reconcile", "0 3 * * *", noop))
	require.NoError(t, s.Register("disabled", "", noop))
	assert.Len(t, s.cron.Entries(), 2)

	assert.Error(t, s.Register("broken", "every now and then", noop))
}

func TestMaintenanceScheduler_RunPassesDeadline(t *testing.T) {
	s := NewMaintenanceScheduler(logrus.New(), nil)

	var hadDeadline bool
	s.run("job", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return errors.New("boom")
	})
	assert.True(t, hadDeadline)
}
