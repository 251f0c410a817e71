// Package version reports the build information of the binaries.
//
// The values are set at build time with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/information-sharing-networks/blog-api/internal/version.version=v1.2.0" ./cmd/blog-server
package version

import "runtime/debug"

var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

type Info struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Get returns the build information. When ldflags were not supplied the VCS
// revision recorded by the go toolchain is used for the commit.
func Get() Info {
	info := Info{Version: version, BuildDate: buildDate, GitCommit: gitCommit}
	if info.GitCommit != "unknown" {
		return info
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.GitCommit = s.Value
			case "vcs.time":
				if info.BuildDate == "unknown" {
					info.BuildDate = s.Value
				}
			}
		}
	}
	return info
}
