// Package mapping exposes the device-type mapping stores over HTTP.
//
// # Routes
//
//   - GET  /mappings/similarity?a=&b=   similarity score of two strings
//   - POST /mappings/match              ranked catalog candidates for a model
//   - GET  /mappings/:domain            every entry of a store
//   - GET  /mappings/:domain/:model     one entry
//
// Stores are reloaded on every request so entries written by CLI runs are
// visible without a restart. The catalog is served from a TTL cache.
package mapping
