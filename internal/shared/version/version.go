// Package version holds the build version, set with
// -ldflags "-X semant/internal/shared/version.Version=...".
package version

var Version = "dev"
