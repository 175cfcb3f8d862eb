package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeDisabledIsNoOp(t *testing.T) {
	dir := t.TempDir()

	if err := Initialize(dir, Options{DebugMode: false}); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	t.Cleanup(CloseAll)

	Boot("should go nowhere")

	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Errorf("logs directory should not exist in production mode")
	}
}

func TestInitializeWritesCategoryFile(t *testing.T) {
	dir := t.TempDir()

	if err := Initialize(dir, Options{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	t.Cleanup(func() {
		CloseAll()
		logsDir = ""
	})

	API("fetched %d participantes", 3)
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	if err != nil {
		t.Fatalf("reading logs dir: %v", err)
	}

	var apiFile string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_api.log") {
			apiFile = filepath.Join(dir, "logs", e.Name())
		}
	}
	if apiFile == "" {
		t.Fatalf("no api category log file found, entries: %v", entries)
	}

	data, err := os.ReadFile(apiFile)
	if err != nil {
		t.Fatalf("reading api log: %v", err)
	}
	if !strings.Contains(string(data), "fetched 3 participantes") {
		t.Errorf("log entry missing, got: %s", data)
	}
}

func TestDisabledCategoryGetsNoOpLogger(t *testing.T) {
	dir := t.TempDir()

	err := Initialize(dir, Options{
		DebugMode:  true,
		Level:      "info",
		Categories: map[string]bool{"ui": false},
	})
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	t.Cleanup(func() {
		CloseAll()
		logsDir = ""
	})

	if IsCategoryEnabled(CategoryUI) {
		t.Error("ui category should be disabled")
	}
	if !IsCategoryEnabled(CategoryAPI) {
		t.Error("unlisted categories default to enabled")
	}

	l := Get(CategoryUI)
	if l.logger != nil {
		t.Error("disabled category should yield a no-op logger")
	}
}
