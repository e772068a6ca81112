// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

import "runtime/debug"

// Set with -ldflags -X at release build time.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// BuildVersion returns Version, or the module version recorded by the Go
// toolchain for binaries installed with "go install".
func BuildVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// UserAgent is sent with outgoing HTTP requests.
func UserAgent() string {
	return "newsvec/" + BuildVersion()
}
