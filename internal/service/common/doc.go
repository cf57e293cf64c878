// Package common holds helpers shared by the client-side commands, most
// notably the HTTP Client wrapper around the alarm API.
package common
