package database

import (
	"gorm.io/gorm"

	"github.com/pupskillswap/skillswap-api/internal/utils"
)

// AfterCursor restricts a query to rows strictly after the cursor in
// (created_at, id) descending order. A nil cursor starts at the top.
func AfterCursor(cursor *utils.Cursor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cursor == nil {
			return db
		}
		return db.Where("created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
}

// NewestFirst orders rows by (created_at, id) descending, the ordering
// AfterCursor pages through.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}
