package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gremlins-go/gremlins/internal/config"
)

func TestFilesForResolvesKnownNames(t *testing.T) {
	byName := map[string]string{"TestFoo": "a_test.go", "TestBar": "b_test.go"}
	got := filesFor([]string{"TestFoo", "TestBar", "TestMissing"}, byName)
	assert.ElementsMatch(t, []string{"a_test.go", "b_test.go"}, got)
}

func TestFilesForEmptyInput(t *testing.T) {
	assert.Nil(t, filesFor(nil, map[string]string{}))
}

func TestWorkerCountSerialWhenNotParallel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Workers.Parallel = false
	assert.Equal(t, 1, workerCount(cfg))
}

func TestWorkerCountUsesConfiguredCount(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Workers.Parallel = true
	cfg.Workers.Count = 7
	assert.Equal(t, 7, workerCount(cfg))
}

func TestWorkerCountFallsBackToNumCPU(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Workers.Parallel = true
	cfg.Workers.Count = 0
	assert.Greater(t, workerCount(cfg), 0)
}

func TestErrMsgNilIsEmpty(t *testing.T) {
	assert.Equal(t, "", errMsg(nil))
}
