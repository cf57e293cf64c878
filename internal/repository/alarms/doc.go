// Package alarms implements persistence for the alarm collection.
//
// The FileRepository stores and loads the whole collection as a single JSON
// document on disk and exposes a Repository interface that the server
// service depends on.
package alarms
