// Package version exposes the build version shown in the transport panel.
package version

import "runtime/debug"

// Version is empty for plain go-build binaries; releases stamp it with
// go build -ldflags "-X github.com/jkataja/tahti/version.Version=$(git describe --dirty)"
var Version string

// VersionOrHash is the stamped Version, or failing that, the short vcs
// revision recorded in the build info ("-dirty" when the tree had local
// modifications). Empty when neither is available.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if len(revision) < 7 {
		return ""
	}
	if modified == "true" {
		return revision[:7] + "-dirty"
	}
	return revision[:7]
}()
