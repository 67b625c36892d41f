package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gremlins-go/gremlins/internal/config"
)

func TestExitErrorUnwraps(t *testing.T) {
	inner := errors.New("below threshold")
	exitErr := &ExitError{Code: 2, Err: inner}

	if exitErr.Error() != inner.Error() {
		t.Errorf("Error() = %q, want %q", exitErr.Error(), inner.Error())
	}
	if !errors.Is(exitErr, inner) {
		t.Error("errors.Is should see through Unwrap to inner")
	}
}

func TestRunOperatorsListsAllByDefault(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	operatorsFilter = ""

	if err := runOperators(cmd, nil); err != nil {
		t.Fatalf("runOperators failed: %v", err)
	}
	out := buf.String()
	for _, name := range []string{"comparison", "boundary", "boolean", "return", "arithmetic"} {
		if !bytes.Contains([]byte(out), []byte(name)) {
			t.Errorf("expected operator %q in output, got:\n%s", name, out)
		}
	}
}

func TestRunOperatorsFilterNarrows(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	operatorsFilter = "bool"
	defer func() { operatorsFilter = "" }()

	if err := runOperators(cmd, nil); err != nil {
		t.Fatalf("runOperators failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("boolean")) {
		t.Errorf("expected boolean operator in filtered output, got:\n%s", buf.String())
	}
	if bytes.Contains(buf.Bytes(), []byte("arithmetic")) {
		t.Errorf("expected arithmetic operator to be filtered out, got:\n%s", buf.String())
	}
}

func TestCacheClearOnEmptyCache(t *testing.T) {
	logger = zap.NewNop()
	ws := t.TempDir()
	workspace = ws
	cfgFile = filepath.Join(ws, "missing.yaml")
	defer func() { workspace = ""; cfgFile = ".gremlins.yaml" }()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.CacheDir = filepath.Join(ws, ".gremlins-cache")
	if err := cfg.Save(filepath.Join(ws, "gremlins.yaml")); err != nil {
		t.Fatalf("config.Save: %v", err)
	}
	cfgFile = filepath.Join(ws, "gremlins.yaml")

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	if err := cacheClearCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
}
