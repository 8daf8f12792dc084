// Package integrity checks the mapping stores against the registry.
//
// Mapping entries point at device types by id. When a device type is deleted
// or renamed in the registry the entry goes stale; this package finds such
// entries and can rewrite a store without them.
//
// # Checks Provided
//
//   - Mappings: entries whose device type is gone, has a non-numeric id, or was renamed.
//   - Schema: the mapping table has every column of mapping.Record (database backend).
//   - Bucket: the mapping bucket exists (object storage backend).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/mappings/:domain : Checks one store.
//   - GET /integrity/schema : Checks the mapping table.
//
// Repairs are only done from the command line (mapping verify --prune).
package integrity
