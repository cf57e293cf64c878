// Package config loads, saves and validates the YAML settings shared by the
// nudnik binaries: API listen address, alarms file location, timeouts and
// log level.
package config
