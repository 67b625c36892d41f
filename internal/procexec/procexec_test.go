package procexec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunCapturesStdout(t *testing.T) {
	r := NewRunner(5 * time.Second)
	res := r.Run(context.Background(), Command{
		Binary:    "echo",
		Arguments: []string{"hello"},
	})
	assert.NoError(t, res.Err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "hello")
}

func TestRunNonZeroExit(t *testing.T) {
	r := NewRunner(5 * time.Second)
	res := r.Run(context.Background(), Command{
		Binary:    "sh",
		Arguments: []string{"-c", "exit 3"},
	})
	assert.NoError(t, res.Err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunTimeoutKillsProcess(t *testing.T) {
	r := NewRunner(50 * time.Millisecond)
	res := r.Run(context.Background(), Command{
		Binary:    "sleep",
		Arguments: []string{"5"},
	})
	assert.True(t, res.Killed)
	assert.Error(t, res.Err)
}

func TestRunPipesStdin(t *testing.T) {
	r := NewRunner(5 * time.Second)
	res := r.Run(context.Background(), Command{
		Binary: "cat",
		Stdin:  "piped through\n",
	})
	assert.NoError(t, res.Err)
	assert.Equal(t, "piped through\n", res.Stdout)
}

func TestCommandString(t *testing.T) {
	c := Command{Binary: "go", Arguments: []string{"test", "./..."}}
	assert.Equal(t, "go test ./...", c.CommandString())
}
