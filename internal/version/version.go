// Package version carries build metadata stamped in with -ldflags, e.g.
//
//	-X sketchboard/internal/version.Version=1.2.0
package version

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the one-line build description shown in the About dialog.
func String() string {
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, commit, BuildTime)
}

// Fields returns the build metadata for a startup log line.
func Fields() logrus.Fields {
	return logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}
}
