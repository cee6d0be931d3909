package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func restore(t *testing.T) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFill(t *testing.T) {
	restore(t)
	Version, Commit, Date = "dev", "none", "unknown"

	fill(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "GOOS", Value: "linux"},
		},
	})
	if Version != "v0.3.1" || Commit != "abc123" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("fill() = %s %s %s", Version, Commit, Date)
	}
}

func TestFillKeepsLdflags(t *testing.T) {
	restore(t)
	Version, Commit, Date = "v1.0.0", "deadbeef", "today"

	fill(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})
	if Version != "v1.0.0" || Commit != "deadbeef" || Date != "today" {
		t.Errorf("fill() overwrote ldflags: %s %s %s", Version, Commit, Date)
	}
}

func TestFillIgnoresDevel(t *testing.T) {
	restore(t)
	Version = "dev"
	fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != "dev" {
		t.Errorf("Version = %q, want dev", Version)
	}
}

func TestTemplate(t *testing.T) {
	restore(t)
	Version, Commit, Date = "v1.2.3", "abc", "now"
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v1.2.3\n") {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); got != "version: v1.2.3\ncommit: abc\nbuilt: now" {
		t.Errorf("String() = %q", got)
	}
}
