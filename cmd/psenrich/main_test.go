package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/psenrich"
	"github.com/poiesic/psenrich/ai"
	"github.com/poiesic/psenrich/ai/mock"
	"github.com/poiesic/psenrich/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testCatalog = `[
  {"id": "SIH1", "title": "Flood early warning"},
  {"id": "SIH2", "title": "Crop advisory"},
  {"id": "SIH3", "title": "Ration tracking"}
]`

type cliHarness struct {
	dbPath   string
	catalog  string
	analyzer *mock.MockAnalyzer
	opened   []*config.Config
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}

	dir := t.TempDir()
	h := &cliHarness{
		dbPath:   filepath.Join(dir, "db"),
		catalog:  filepath.Join(dir, "problems.json"),
		analyzer: mock.NewMockAnalyzer(),
	}
	require.NoError(t, os.WriteFile(h.catalog, []byte(testCatalog), 0o644))

	prev := openDatabase
	openDatabase = func(cfg *config.Config) (*psenrich.Database, error) {
		h.opened = append(h.opened, cfg)
		return psenrich.NewDatabase(cfg.DBPath, psenrich.WithProvider(mock.NewMockProviderWithAnalyzer(h.analyzer)))
	}
	t.Cleanup(func() { openDatabase = prev })
	return h
}

func (h *cliHarness) run(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err = app.Run(append([]string{"psenrich", "--log-level", "error", "--db", h.dbPath}, args...))
	return out.String(), errOut.String(), err
}

func TestRunCommand(t *testing.T) {
	h := newCLIHarness(t)

	_, stderr, err := h.run("run", "--catalog", h.catalog, "--pacing", "0s")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[1/3] SIH1 created")
	assert.Contains(t, stderr, "Done: 3 total, 3 created, 0 skipped, 0 failed")
	assert.Equal(t, 3, h.analyzer.CallCount())

	_, stderr, err = h.run("run", "--catalog", h.catalog, "--pacing", "0s")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Done: 3 total, 0 created, 3 skipped, 0 failed")
	assert.Equal(t, 3, h.analyzer.CallCount())
}

func TestRunCommand_FlagsOverrideConfig(t *testing.T) {
	h := newCLIHarness(t)
	cfgPath := filepath.Join(t.TempDir(), "psenrich.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("pacing: 1h\nai_model: from-file\nai_requests_per_minute: 4\n"), 0o644))

	_, _, err := h.run("--config", cfgPath, "run", "--catalog", h.catalog, "--pacing", "0s", "--timeout", "5s")
	require.NoError(t, err)

	require.Len(t, h.opened, 1)
	cfg := h.opened[0]
	assert.Zero(t, cfg.Pacing)
	assert.Equal(t, 5*time.Second, cfg.CallTimeout)
	assert.Equal(t, "from-file", cfg.AIModel)
	assert.Equal(t, 4, cfg.AIRequestsPerMinute)
	assert.Equal(t, h.dbPath, cfg.DBPath)
}

func TestRunCommand_ItemFailuresDoNotFail(t *testing.T) {
	h := newCLIHarness(t)
	h.analyzer.WithAnalyzeFunc(func(ctx context.Context, text string) (ai.Result, error) {
		if strings.Contains(text, "Crop advisory") {
			return ai.Failed("model refused"), nil
		}
		return ai.Succeeded(ai.Analysis{}), nil
	})
	report := filepath.Join(t.TempDir(), "report.json")

	stdout, stderr, err := h.run("run", "--catalog", h.catalog, "--pacing", "0s", "--report", report)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SIH2\tfailed\tmodel refused")
	assert.Contains(t, stderr, "Report written to "+report)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.EqualValues(t, 2, got["created"])
	assert.EqualValues(t, 1, got["failed"])
}

func TestRunCommand_Errors(t *testing.T) {
	h := newCLIHarness(t)

	t.Run("catalog required", func(t *testing.T) {
		_, _, err := h.run("run")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog")
	})

	t.Run("catalog not a list", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"id": "SIH1"}`), 0o644))

		_, _, err := h.run("run", "--catalog", bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a list")
		assert.Zero(t, h.analyzer.CallCount())
	})

	t.Run("invalid log level", func(t *testing.T) {
		app := newApp()
		app.Writer, app.ErrWriter = &bytes.Buffer{}, &bytes.Buffer{}
		err := app.Run([]string{"psenrich", "--log-level", "loud", "status"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("invalid provider", func(t *testing.T) {
		_, _, err := h.run("run", "--catalog", h.catalog, "--provider", "nope")
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestOneCommand(t *testing.T) {
	h := newCLIHarness(t)

	_, stderr, err := h.run("one", "--catalog", h.catalog, "--id", "SIH2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[1/1] SIH2 created")
	assert.Equal(t, 1, h.analyzer.CallCount())

	_, _, err = h.run("one", "--catalog", h.catalog, "--id", "SIH9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SIH9")

	_, _, err = h.run("one", "--catalog", h.catalog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id")
}

func TestStatusCommand(t *testing.T) {
	h := newCLIHarness(t)

	stdout, _, err := h.run("status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Records: 0")
	assert.Contains(t, stdout, "Last batch run: none")

	_, _, err = h.run("run", "--catalog", h.catalog, "--pacing", "0s")
	require.NoError(t, err)

	changed := filepath.Join(t.TempDir(), "changed.yaml")
	require.NoError(t, os.WriteFile(changed, []byte("- id: SIH3\n  title: Ration tracking v2\n"), 0o644))

	stdout, _, err = h.run("status", "--catalog", changed)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Records: 3")
	assert.Contains(t, stdout, "(3 total, 3 created, 0 skipped, 0 failed")
	assert.Contains(t, stdout, "Last single run: none")
	assert.Contains(t, stdout, "Stale: 1\n  SIH3\n")
}

func TestRunFlagsDefaults(t *testing.T) {
	var pacing, timeout *cli.DurationFlag
	for _, flag := range runFlags() {
		if f, ok := flag.(*cli.DurationFlag); ok {
			switch f.Name {
			case "pacing":
				pacing = f
			case "timeout":
				timeout = f
			}
		}
	}
	require.NotNil(t, pacing)
	require.NotNil(t, timeout)
	assert.Equal(t, 2*time.Second, pacing.Value)
	assert.Equal(t, 2*time.Minute, timeout.Value)
	assert.Empty(t, pacing.EnvVars)
}
