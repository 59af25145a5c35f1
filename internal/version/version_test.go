package version

import (
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{"release with commit", BuildInfo{Version: "v1.2.3", GitCommit: "abcdef0123"}, "v1.2.3 (abcdef0)"},
		{"dev with commit", BuildInfo{Version: "dev", GitCommit: "abcdef0123"}, "dev-abcdef0"},
		{"unknown commit", BuildInfo{Version: "v1.0.0", GitCommit: "unknown"}, "v1.0.0"},
		{"short commit", BuildInfo{Version: "v1.0.0", GitCommit: "abc"}, "v1.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.Short())
		})
	}
}

func TestIsRelease(t *testing.T) {
	assert.True(t, (&BuildInfo{Version: "v1.0.0"}).IsRelease())
	assert.False(t, (&BuildInfo{Version: "dev"}).IsRelease())
	assert.False(t, (&BuildInfo{Version: "dev-abc1234"}).IsRelease())
}

func TestFromBuildInfo(t *testing.T) {
	info := &BuildInfo{Version: "dev", GitCommit: "unknown", Modules: map[string]string{}}
	fromBuildInfo(info, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Deps: []*debug.Module{
			{Path: "github.com/a-h/templ", Version: "v0.3.906"},
			{Path: "github.com/unrelated/mod", Version: "v1.0.0"},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	assert.Equal(t, "v0.4.0", info.Version)
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime.UTC())
	assert.True(t, info.Dirty)
	assert.Equal(t, map[string]string{"github.com/a-h/templ": "v0.3.906"}, info.Modules)
}

func TestFromBuildInfoKeepsLdflags(t *testing.T) {
	info := &BuildInfo{Version: "v9.9.9", GitCommit: "fedcba9876", Modules: map[string]string{}}
	fromBuildInfo(info, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789"}},
	})

	assert.Equal(t, "v9.9.9", info.Version)
	assert.Equal(t, "fedcba9876", info.GitCommit)
}

func TestDetailed(t *testing.T) {
	info := &BuildInfo{
		Version:   "v1.0.0",
		GitCommit: "abcdef0",
		BuildTime: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		GoVersion: "go1.24.4",
		Platform:  "linux/amd64",
		Dirty:     true,
		Modules:   map[string]string{"github.com/spf13/cobra": "v1.9.1"},
	}

	want := "Version: v1.0.0\n" +
		"Commit: abcdef0\n" +
		"Built: 2026-01-02T03:04:05Z\n" +
		"Go: go1.24.4\n" +
		"Platform: linux/amd64\n" +
		"Working directory: dirty\n" +
		"Module github.com/spf13/cobra: v1.9.1"
	assert.Equal(t, want, info.Detailed())
}

func TestParseTime(t *testing.T) {
	assert.True(t, parseTime("unknown").IsZero())
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
	assert.Equal(t, 2026, parseTime("2026-03-04 05:06:07").Year())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
