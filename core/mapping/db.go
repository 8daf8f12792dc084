package mapping

import (
	"context"

	"gorm.io/gorm"
)

// Record is the database row of a mapping entry.
type Record struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Domain        string `gorm:"size:32;not null;uniqueIndex:idx_domain_model"`
	ObservedModel string `gorm:"size:255;not null;uniqueIndex:idx_domain_model"`
	CanonicalName string `gorm:"size:255;not null"`
	CanonicalID   string `gorm:"size:64;not null"`
}

// TableName implements gorm's Tabler.
func (Record) TableName() string {
	return "device_type_mappings"
}

// DBBackend stores mappings of one domain in a database table.
type DBBackend struct {
	db     *gorm.DB
	domain Domain
}

// NewDBBackend creates a database backend for the given domain.
func NewDBBackend(db *gorm.DB, domain Domain) *DBBackend {
	return &DBBackend{db: db, domain: domain}
}

// Prepare creates or migrates the mapping table.
func (b *DBBackend) Prepare(ctx context.Context) error {
	return b.db.WithContext(ctx).AutoMigrate(&Record{})
}

// Describe implements Backend.
func (b *DBBackend) Describe() string {
	return "table device_type_mappings (" + string(b.domain) + ")"
}

// Load implements Backend.
func (b *DBBackend) Load(ctx context.Context) ([]Entry, error) {
	var rows []Record
	if err := b.db.WithContext(ctx).Where("domain = ?", string(b.domain)).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, Entry{
			ObservedModel: r.ObservedModel,
			CanonicalName: r.CanonicalName,
			CanonicalID:   r.CanonicalID,
		})
	}
	return entries, nil
}

// Save implements Backend. The domain's rows are replaced in one transaction.
func (b *DBBackend) Save(ctx context.Context, entries []Entry) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("domain = ?", string(b.domain)).Delete(&Record{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		rows := make([]Record, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, Record{
				Domain:        string(b.domain),
				ObservedModel: e.ObservedModel,
				CanonicalName: e.CanonicalName,
				CanonicalID:   e.CanonicalID,
			})
		}
		return tx.Create(&rows).Error
	})
}
