// audit.go provides structured, JSON-lines audit logging of run lifecycle
// and per-gremlin events, independent of the category file logger in
// logger.go. Where the category logger is for diagnosing gremlins itself,
// the audit log is a queryable record of what one run did.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType names one kind of audited event.
type AuditEventType string

const (
	AuditRunStart        AuditEventType = "run_start"
	AuditRunComplete      AuditEventType = "run_complete"
	AuditCoverageStart    AuditEventType = "coverage_start"
	AuditCoverageComplete AuditEventType = "coverage_complete"
	AuditCacheHit         AuditEventType = "cache_hit"
	AuditCacheMiss        AuditEventType = "cache_miss"
	AuditGremlinDispatch  AuditEventType = "gremlin_dispatch"
	AuditGremlinResult    AuditEventType = "gremlin_result"
	AuditErrorGeneric     AuditEventType = "error_generic"
)

// AuditEvent is one structured audit log entry.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`
	EventType  AuditEventType         `json:"event"`
	RunID      string                 `json:"run"`
	GremlinID  string                 `json:"gremlin,omitempty"`
	Target     string                 `json:"target,omitempty"`
	Success    bool                   `json:"success"`
	DurationMs int64                  `json:"dur_ms,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Message    string                 `json:"msg"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// InitAudit opens the audit log file under logsDir. No-op outside debug mode.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile != nil {
		return nil
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	auditFile = file
	return nil
}

// CloseAudit closes the audit log file.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// AuditLogger writes audit events scoped to one run.
type AuditLogger struct {
	runID string
}

// AuditWithRun returns an AuditLogger scoped to runID.
func AuditWithRun(runID string) *AuditLogger {
	return &AuditLogger{runID: runID}
}

// Log writes event as a JSON line, filling in run id and timestamp defaults.
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsDebugMode() || auditFile == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.RunID == "" {
		event.RunID = a.runID
	}

	auditMu.Lock()
	defer auditMu.Unlock()
	if data, err := json.Marshal(event); err == nil {
		auditFile.WriteString(string(data) + "\n")
	}
}

// RunStart logs the start of a full orchestrator run.
func (a *AuditLogger) RunStart(targets []string) {
	a.Log(AuditEvent{EventType: AuditRunStart, Success: true, Message: fmt.Sprintf("run started, targets=%v", targets)})
}

// RunComplete logs the end of a run with its final score.
func (a *AuditLogger) RunComplete(total, zapped int, percentage float64, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  AuditRunComplete,
		Success:    true,
		DurationMs: durationMs,
		Fields:     map[string]interface{}{"total": total, "zapped": zapped, "percentage": percentage},
		Message:    fmt.Sprintf("run complete: %.1f%% (%d/%d)", percentage, zapped, total),
	})
}

// CoverageStart logs the start of the coverage-collection pass.
func (a *AuditLogger) CoverageStart(testCount int) {
	a.Log(AuditEvent{EventType: AuditCoverageStart, Success: true, Message: fmt.Sprintf("collecting coverage for %d tests", testCount)})
}

// CoverageComplete logs the end of the coverage-collection pass.
func (a *AuditLogger) CoverageComplete(durationMs int64, success bool, errMsg string) {
	a.Log(AuditEvent{
		EventType:  AuditCoverageComplete,
		Success:    success,
		DurationMs: durationMs,
		Error:      errMsg,
		Message:    fmt.Sprintf("coverage collection complete (success=%v, %dms)", success, durationMs),
	})
}

// CacheProbe logs a cache hit or miss for a gremlin.
func (a *AuditLogger) CacheProbe(gremlinID string, hit bool) {
	eventType := AuditCacheMiss
	if hit {
		eventType = AuditCacheHit
	}
	a.Log(AuditEvent{EventType: eventType, GremlinID: gremlinID, Success: true, Message: fmt.Sprintf("%s: %s", eventType, gremlinID)})
}

// GremlinDispatch logs a gremlin being sent to a worker.
func (a *AuditLogger) GremlinDispatch(gremlinID string, testCount int) {
	a.Log(AuditEvent{
		EventType: AuditGremlinDispatch,
		GremlinID: gremlinID,
		Success:   true,
		Fields:    map[string]interface{}{"test_count": testCount},
		Message:   fmt.Sprintf("dispatched %s with %d tests", gremlinID, testCount),
	})
}

// GremlinResult logs a gremlin's terminal status.
func (a *AuditLogger) GremlinResult(gremlinID, status string, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  AuditGremlinResult,
		GremlinID:  gremlinID,
		Success:    status == "zapped" || status == "timeout",
		DurationMs: durationMs,
		Fields:     map[string]interface{}{"status": status},
		Message:    fmt.Sprintf("%s -> %s (%dms)", gremlinID, status, durationMs),
	})
}

// Error logs a run-level error.
func (a *AuditLogger) Error(target string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	a.Log(AuditEvent{
		EventType: AuditErrorGeneric,
		Target:    target,
		Success:   false,
		Error:     errMsg,
		Message:   fmt.Sprintf("error in %s: %s", target, errMsg),
	})
}
