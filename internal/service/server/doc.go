// Package server hosts the alarm business logic and the nudnik-server
// command.
//
// The service owns the authoritative in-memory alarm collection: every
// mutation persists the whole collection through the repository and brings
// the notification scheduler in line with the new state. Run wires the
// repository, scheduler, service and HTTP transport together.
package server
