package scheduler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LJTian/NewsCard/internal/topic"
)

func TestRunOnceReloadsRegistryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	yaml := "topics:\n  - code: entertainment\n    disabled: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	reg := topic.NewRegistry(nil)
	s, err := New("@every 1h", reg, TopicSources{File: path})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	s.RunOnce()

	if _, ok := reg.Get("politics"); !ok {
		t.Fatalf("defaults should be loaded")
	}
	if _, ok := reg.Get("entertainment"); ok {
		t.Fatalf("entertainment should be disabled by file")
	}
}

func TestLoadSkipsMissingFile(t *testing.T) {
	topics := TopicSources{File: filepath.Join(t.TempDir(), "missing.yaml")}.Load()
	if len(topics) != len(topic.Defaults()) {
		t.Fatalf("missing file should fall back to defaults, got %d topics", len(topics))
	}
}

func TestNewRejectsBadSpec(t *testing.T) {
	if _, err := New("not a cron spec", topic.NewRegistry(nil), TopicSources{}); err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}
}
