// Package version exposes the build metadata shared by the nudnik binaries.
//
// Version, Commit, and BuildTime are injected through Go ldflags at release
// time and default to local-build placeholders otherwise. Short and Full
// render them for the version subcommand and for logs.
package version
