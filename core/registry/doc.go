// Package registry talks to the infrastructure-of-record system, a
// NetBox-compatible REST API.
//
// Only the calls the importers need are covered. Every write is a
// get-or-create: the object is looked up by its natural key (name, name and
// site, address, ...) and created when the lookup comes back empty, so
// re-running an import does not duplicate anything.
//
// # Errors
//
// Non-2xx responses are returned as *APIError with the status code and body.
// A lookup that matches more than one object fails with ErrAmbiguous; a
// lookup that must succeed and matches nothing fails with ErrNotFound.
//
// # Authentication
//
// Requests carry "Authorization: Token <token>". TLS verification can be
// turned off with Config.VerifyTLS for lab instances with self-signed
// certificates.
//
// The registrytest subpackage contains an in-memory fake server for tests.
package registry
