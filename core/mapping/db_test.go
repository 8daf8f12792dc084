package mapping_test

import (
	"context"
	"regexp"
	"testing"

	"inventory-sync/core/mapping"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestDBBackend_Load(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "domain", "observed_model", "canonical_name", "canonical_id"}).
		AddRow(1, "wireless", "C9120AXI-B", "AIR-AP9120AXI-B", "12").
		AddRow(2, "wireless", "9130AXI", "AIR-AP9130AXI-B", "14")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `device_type_mappings` WHERE domain = ?")).
		WithArgs("wireless").
		WillReturnRows(rows)

	entries, err := mapping.NewDBBackend(db, mapping.DomainWireless).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []mapping.Entry{
		{ObservedModel: "C9120AXI-B", CanonicalName: "AIR-AP9120AXI-B", CanonicalID: "12"},
		{ObservedModel: "9130AXI", CanonicalName: "AIR-AP9130AXI-B", CanonicalID: "14"},
	}, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBBackend_Save(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `device_type_mappings` WHERE domain = ?")).
		WithArgs("generic").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `device_type_mappings`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := mapping.NewDBBackend(db, mapping.DomainGeneric).Save(context.Background(), []mapping.Entry{
		{ObservedModel: "WS-C3850-48P", CanonicalName: "WS-C3850-48P-S", CanonicalID: "31"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBBackend_SaveRollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `device_type_mappings`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `device_type_mappings`")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := mapping.NewDBBackend(db, mapping.DomainGeneric).Save(context.Background(), []mapping.Entry{
		{ObservedModel: "A", CanonicalName: "A", CanonicalID: "1"},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewBackend(t *testing.T) {
	ctx := context.Background()
	cfg := mapping.Config{Backend: "file", WirelessPath: "w.json", GenericPath: "g.yaml"}

	b, err := mapping.NewBackend(ctx, cfg, mapping.DomainWireless, mapping.Deps{})
	require.NoError(t, err)
	assert.Equal(t, "file w.json", b.Describe())

	_, err = mapping.NewBackend(ctx, cfg, mapping.Domain("bogus"), mapping.Deps{})
	assert.Error(t, err)

	cfg.Backend = "s3"
	_, err = mapping.NewBackend(ctx, cfg, mapping.DomainGeneric, mapping.Deps{})
	assert.Error(t, err)

	cfg.Backend = "database"
	_, err = mapping.NewBackend(ctx, cfg, mapping.DomainGeneric, mapping.Deps{})
	assert.Error(t, err)

	cfg.Backend = "ftp"
	_, err = mapping.NewBackend(ctx, cfg, mapping.DomainGeneric, mapping.Deps{})
	assert.Error(t, err)
}
