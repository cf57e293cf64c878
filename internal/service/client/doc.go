// Package client implements the nudnikctl commands. Each command dials the
// alarm server over HTTP, performs a single operation and reports the result,
// except for watch which keeps polling until interrupted.
package client
