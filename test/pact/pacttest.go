//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "svgboard-api"
	ConsumerName = "svgboard-web"

	StateNoProjects       = "no projects exist"
	StateProjectWithShape = "project 1 exists with snapshot 1"
	StateTwoProjects      = "projects 1 and 2 exist, snapshot 1 belongs to project 1"
)

const (
	ExistingProjectID  int64 = 1
	OtherProjectID     int64 = 2
	ExistingSnapshotID int64 = 1
	MissingProjectID   int64 = 404

	ExampleTitle      = "Pact board"
	ExampleShapesData = `{"shapes":[{"type":"rect","x":10,"y":20}]}`
	ExampleTimestamp  = "2026-01-02T03:04:05.123456Z"
)

// TimestampPattern matches RFC 3339 UTC timestamps as written by the API.
const TimestampPattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z$`

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file path for the board web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
