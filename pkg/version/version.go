// Package version holds the build version, set through
// -ldflags "-X landersim/pkg/version.Version=...".
package version

var Version = "v0.1.0-dev"
