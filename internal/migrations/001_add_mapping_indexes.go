package migrations

import (
	"gorm.io/gorm"
)

// Migration001AddMappingIndexes adds indexes for the two hot query paths the
// gorm tags do not fully cover:
// 1. the cleanup scan (expiry_date <= now on rows that have one)
// 2. per-owner listing in insertion order (user_id, id)
//
// All statements are idempotent (IF NOT EXISTS) for safe re-runs.
func Migration001AddMappingIndexes() Migration {
	return Migration{
		ID:   "001_add_mapping_indexes",
		Name: "Add partial expiry index and owner listing index for mappings",
		Up: func(db *gorm.DB) error {
			// Partial index keeps never-expiring mappings out of the
			// cleanup scan entirely.
			idx1 := `
				CREATE INDEX IF NOT EXISTS idx_mapping_expiry
				ON mapping (expiry_date)
				WHERE expiry_date IS NOT NULL
			`
			if err := db.Exec(idx1).Error; err != nil {
				return err
			}

			idx2 := `
				CREATE INDEX IF NOT EXISTS idx_mapping_owner_order
				ON mapping (user_id, id)
			`
			return db.Exec(idx2).Error
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS idx_mapping_expiry`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP INDEX IF EXISTS idx_mapping_owner_order`).Error
		},
	}
}
