// Package version holds build metadata set through -ldflags.
package version

// Version is overridden at build time with
// -ldflags "-X idiomlint/internal/shared/version.Version=v1.2.3".
var Version = "dev"
