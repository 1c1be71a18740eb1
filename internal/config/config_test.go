package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("cfg = %+v, want zero value", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ndn.yaml")
	contents := "cache_size: 50\nself_ip: 10.0.0.5\nself_tcp: 6000\ndirectory_ip: 10.0.0.9\ndirectory_udp: 4000\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{CacheSize: 50, SelfIP: "10.0.0.5", SelfPort: 6000, DirectoryIP: "10.0.0.9", DirectoryPort: 4000, LogLevel: "debug"}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("cache_size: [this is not an int\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}

func TestMergeOverridesOnlyNonZeroFields(t *testing.T) {
	base := Config{CacheSize: 10, SelfIP: "1.1.1.1", LogLevel: "info"}
	override := Config{SelfIP: "2.2.2.2"}
	got := base.Merge(override)
	want := Config{CacheSize: 10, SelfIP: "2.2.2.2", LogLevel: "info"}
	if got != want {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
}
