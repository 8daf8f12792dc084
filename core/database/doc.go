// Package database opens the optional SQL database used by the database
// mapping backend.
//
// MySQL is the production driver; sqlite is accepted for local runs and
// tests. Connect verifies the connection with a ping bounded by the
// configured timeout.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read a table's live column list. The
// mapping integrity check uses them to report a device_type_mappings table
// that does not match the expected layout.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	missing, err := database.MissingColumns(db, "device_type_mappings", columns)
package database
