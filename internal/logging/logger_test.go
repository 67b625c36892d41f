package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func resetState() {
	CloseAll()
	CloseAudit()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	workspace = ""
	cfg = loggingConfig{}
}

func writeConfig(t *testing.T, dir, yamlBody string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "gremlins.yaml"), []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestAllCategoriesLogWhenDebugEnabled(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
logging:
  level: debug
  debug_mode: true
`)
	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("expected debug mode enabled")
	}

	categories := []Category{
		CategoryBoot, CategoryDiscover, CategoryHash, CategoryInstrument,
		CategoryCoverage, CategoryCache, CategoryWorker, CategoryAggregate,
		CategoryOrchestrator, CategoryReport,
	}
	for _, cat := range categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("category %s should be enabled", cat)
		}
		l := Get(cat)
		l.Info("info for %s", cat)
		l.Debug("debug for %s", cat)
		l.Warn("warn for %s", cat)
		l.Error("error for %s", cat)
	}

	CloseAll()

	logsPath := filepath.Join(tempDir, ".gremlins-cache", "logs")
	entries, err := os.ReadDir(logsPath)
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	for _, cat := range categories {
		found := false
		for _, e := range entries {
			if strings.Contains(e.Name(), string(cat)+".log") {
				found = true
				content, _ := os.ReadFile(filepath.Join(logsPath, e.Name()))
				if len(content) == 0 {
					t.Errorf("log file for %s is empty", cat)
				}
			}
		}
		if !found {
			t.Errorf("no log file found for category %s", cat)
		}
	}
}

func TestDebugModeDisabledProducesNoLogs(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
logging:
  level: debug
  debug_mode: false
`)
	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if IsDebugMode() {
		t.Fatal("expected debug mode disabled")
	}
	if IsCategoryEnabled(CategoryBoot) {
		t.Error("boot should be disabled in production mode")
	}

	Get(CategoryBoot).Info("should not be logged")
	CloseAll()

	logsPath := filepath.Join(tempDir, ".gremlins-cache", "logs")
	if _, err := os.Stat(logsPath); err == nil {
		entries, _ := os.ReadDir(logsPath)
		if len(entries) > 0 {
			t.Errorf("expected no log files in production mode, found %d", len(entries))
		}
	}
}

func TestCategoryToggle(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
logging:
  level: debug
  debug_mode: true
  categories:
    boot: true
    worker: false
`)
	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if !IsCategoryEnabled(CategoryBoot) {
		t.Error("boot should be enabled")
	}
	if IsCategoryEnabled(CategoryWorker) {
		t.Error("worker should be disabled")
	}
	if !IsCategoryEnabled(CategoryCache) {
		t.Error("cache (not in config) should default to enabled")
	}

	Boot("should be logged")
	Worker("should not be logged")
	Cache("should be logged, default enabled")
	CloseAll()

	logsPath := filepath.Join(tempDir, ".gremlins-cache", "logs")
	entries, _ := os.ReadDir(logsPath)

	var hasBoot, hasWorker bool
	for _, e := range entries {
		if strings.Contains(e.Name(), "boot") {
			hasBoot = true
		}
		if strings.Contains(e.Name(), "worker") {
			hasWorker = true
		}
	}
	if !hasBoot {
		t.Error("expected boot log file")
	}
	if hasWorker {
		t.Error("should not have worker log file (disabled)")
	}
}

func TestTimerRecordsDuration(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
logging:
  level: debug
  debug_mode: true
`)
	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	timer := StartTimer(CategoryOrchestrator, "TestOperation")
	time.Sleep(time.Millisecond)
	elapsed := timer.Stop()

	if elapsed <= 0 {
		t.Error("timer should record non-zero duration")
	}
	CloseAll()
}
