package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/enqueue-tally/internal/logline"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"grep_bin", "N", "rootpath", "searchstr"}, cfg.Filter.HeaderPrefixes)
	assert.Equal(t, "] DONE", cfg.Filter.DoneSuffix)
	assert.Equal(t, "/", cfg.Filter.PathSeparator)
	assert.Equal(t, "ENQUEUE", cfg.Filter.TrackedAction)
	assert.False(t, cfg.Filter.Strict)
	assert.True(t, cfg.Report.Echo)
	assert.False(t, cfg.Report.Actions)
	assert.Empty(t, cfg.Metrics.Textfile)
	assert.Equal(t, logline.DefaultFilter(), cfg.LineFilter())
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tally.yaml")
	configYAML := `
logging:
  development: true
  level: debug
filter:
  header_prefixes: ["#", "HEADER"]
  done_suffix: " FINISHED"
  path_separator: "\\"
  tracked_action: DIR
  strict: true
report:
  echo: false
  actions: true
metrics:
  textfile: /var/lib/node_exporter/enqueue_tally.prom
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"#", "HEADER"}, cfg.Filter.HeaderPrefixes)
	assert.Equal(t, " FINISHED", cfg.Filter.DoneSuffix)
	assert.Equal(t, `\`, cfg.Filter.PathSeparator)
	assert.Equal(t, "DIR", cfg.Filter.TrackedAction)
	assert.True(t, cfg.Filter.Strict)
	assert.False(t, cfg.Report.Echo)
	assert.True(t, cfg.Report.Actions)
	assert.Equal(t, "/var/lib/node_exporter/enqueue_tally.prom", cfg.Metrics.Textfile)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ENQTALLY_FILTER_STRICT", "true")
	t.Setenv("ENQTALLY_REPORT_ECHO", "false")
	t.Setenv("ENQTALLY_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Filter.Strict)
	assert.False(t, cfg.Report.Echo)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filter:\n  path_separator: \"\"\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter.path_separator")
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Logging: LoggingConfig{Level: "info"},
		Filter: FilterConfig{
			HeaderPrefixes: []string{"N"},
			PathSeparator:  "/",
			TrackedAction:  "ENQUEUE",
		},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "empty separator",
			cfg: func() Config {
				c := base
				c.Filter.PathSeparator = ""
				return c
			}(),
			want: "filter.path_separator",
		},
		{
			name: "empty tracked action",
			cfg: func() Config {
				c := base
				c.Filter.TrackedAction = ""
				return c
			}(),
			want: "filter.tracked_action",
		},
		{
			name: "tracked action with space",
			cfg: func() Config {
				c := base
				c.Filter.TrackedAction = "EN QUEUE"
				return c
			}(),
			want: "filter.tracked_action",
		},
		{
			name: "empty header prefix",
			cfg: func() Config {
				c := base
				c.Filter.HeaderPrefixes = []string{"N", ""}
				return c
			}(),
			want: "filter.header_prefixes",
		},
		{
			name: "unknown log level",
			cfg: func() Config {
				c := base
				c.Logging.Level = "chatty"
				return c
			}(),
			want: "logging.level",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
