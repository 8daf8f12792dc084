package checks

import (
	"context"
	"fmt"

	"inventory-sync/core/database"
	"inventory-sync/core/mapping"
	"inventory-sync/core/storage"

	"gorm.io/gorm"
)

// SchemaReport is the result of checking the mapping table.
type SchemaReport struct {
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
}

// CheckSchema verifies that the mapping table has every column of
// mapping.Record.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(&mapping.Record{}); err != nil {
		return nil, fmt.Errorf("failed to parse mapping model: %w", err)
	}

	missing, err := database.MissingColumns(db, stmt.Schema.Table, stmt.Schema.DBNames)
	if err != nil {
		return nil, err
	}
	if missing == nil {
		missing = []string{}
	}

	return &SchemaReport{
		Table:          stmt.Schema.Table,
		Matched:        len(missing) == 0,
		MissingColumns: missing,
	}, nil
}

// CheckBucket reports whether the mapping bucket exists.
func CheckBucket(ctx context.Context, client storage.Client, bucket string) (bool, error) {
	if client == nil {
		return false, fmt.Errorf("storage client is nil")
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	return exists, nil
}
