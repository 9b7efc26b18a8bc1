package handler

import (
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set with -ldflags "-X github.com/osse101/Atelier_Go/internal/handler.Version=..."
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

// APIVersion is the route prefix the engine serves under
const APIVersion = "v1"

// BuildInfo describes the running binary
type BuildInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	GoVersion  string `json:"go_version"`
	Commit     string `json:"commit,omitempty"`
	BuiltAt    string `json:"built_at,omitempty"`
	Dirty      bool   `json:"dirty,omitempty"`
}

var (
	buildInfoOnce sync.Once
	buildInfo     BuildInfo
)

// CurrentBuild resolves build metadata once. Linker flags win, then the
// VERSION variable, then the VCS stamp the go toolchain embeds.
func CurrentBuild() BuildInfo {
	buildInfoOnce.Do(func() {
		buildInfo = resolveBuild(Version, os.Getenv("VERSION"), BuildTime, GitCommit, debug.ReadBuildInfo)
	})
	return buildInfo
}

func resolveBuild(linked, env, builtAt, commit string, read func() (*debug.BuildInfo, bool)) BuildInfo {
	info := BuildInfo{
		Version:    linked,
		APIVersion: APIVersion,
		GoVersion:  runtime.Version(),
		Commit:     commit,
		BuiltAt:    builtAt,
	}
	if info.Version == "" || info.Version == "dev" {
		info.Version = "dev"
		if env != "" {
			info.Version = env
		}
	}

	bi, ok := read()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuiltAt == "" {
				info.BuiltAt = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// HandleVersion reports build metadata
func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, CurrentBuild())
	}
}
