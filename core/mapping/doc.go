// Package mapping persists the decisions that map observed device models to
// canonical registry device types.
//
// A Store is an ordered list of Entry values with at most one entry per
// observed model. It is read once at the start of a reconciliation run and
// rewritten in full when the run produced new decisions. The write is
// all-or-nothing: if the backend fails, the in-memory state is left as it was
// before the call.
//
// # Backends
//
//   - FileBackend: a JSON or YAML file, written through a temporary file and an
//     atomic rename.
//   - ObjectBackend: a single object in an S3-compatible bucket (MinIO).
//   - DBBackend: rows in the device_type_mappings table, one domain per store.
//
// A missing file, object or empty table is an empty store, not an error. Data
// that exists but cannot be parsed is always an error.
//
// # Domains
//
// Each source family keeps its own store. DomainWireless holds models learned
// from wireless controllers, DomainGeneric holds everything else (CSV files,
// the network management platform).
//
// Concurrent runs against the same store are not supported; nothing locks
// the backing file.
package mapping
