package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, cfg.Targets)
}

func TestLoadParsesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gremlins.yaml")
	cfg := DefaultConfig()
	cfg.Targets = []string{"./internal"}
	cfg.MinScore = 75
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"./internal"}, loaded.Targets)
	assert.Equal(t, 75.0, loaded.MinScore)
}

func TestValidateRejectsEmptyTargets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Targets = nil
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangeMinScore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinScore = 150
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeWorkerCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers.Count = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMalformedTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeouts.PerGremlin = "not-a-duration"
	assert.Error(t, cfg.Validate())
}

func TestPerGremlinTimeoutDefaultsWhenUnset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeouts.PerGremlin = ""
	d, err := cfg.PerGremlinTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30e9, float64(d))
}

func TestSaveRoundTripsThroughYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "gremlins.yaml")
	cfg := DefaultConfig()
	cfg.Operators = []string{"comparison", "boundary"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Operators, loaded.Operators)
}
