// Package app_test contains unit tests for the app package.
package app_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/enqueue-tally/internal/app"
	"github.com/JakeFAU/enqueue-tally/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Logging: config.LoggingConfig{Level: "info"},
		Filter: config.FilterConfig{
			HeaderPrefixes: []string{"N"},
			PathSeparator:  "/",
			TrackedAction:  "ENQUEUE",
		},
	}
}

func TestNewApp_Success(t *testing.T) {
	t.Parallel()

	a, err := app.NewApp(validConfig())
	require.NoError(t, err)
	require.NotNil(t, a)
	defer a.Close()

	assert.NotNil(t, a.GetLogger())
	assert.NotNil(t, a.GetMetrics())
	require.NotNil(t, a.GetClock())
	assert.Equal(t, time.UTC, a.GetClock().Now().Location())
	assert.Equal(t, "ENQUEUE", a.GetConfig().Filter.TrackedAction)
	_, err = uuid.Parse(a.RunID)
	assert.NoError(t, err)
}

func TestNewApp_UniqueRunIDs(t *testing.T) {
	t.Parallel()

	a1, err := app.NewApp(validConfig())
	require.NoError(t, err)
	a2, err := app.NewApp(validConfig())
	require.NoError(t, err)

	assert.NotEqual(t, a1.RunID, a2.RunID)
	assert.NotSame(t, a1.GetMetrics(), a2.GetMetrics())
}

func TestNewApp_BadLogLevel(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Logging.Level = "chatty"

	_, err := app.NewApp(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init logger")
}

func TestApp_Close(t *testing.T) {
	t.Parallel()

	a := &app.App{Logger: zap.NewNop()}
	assert.NotPanics(t, a.Close)
}
