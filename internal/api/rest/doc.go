// Package rest implements the JSON/HTTP alarm API.
//
// It depends on a narrow Service interface so the transport stays decoupled
// from the business logic, and maps domain errors onto HTTP statuses.
package rest
