package dao

import (
	"errors"

	"github.com/ctsync/ctsync/server/tables"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetContentByHash returns the cached body for a content hash, with a zero
// Id when not cached.
func (d *DB) GetContentByHash(hash string) (content tables.ContentCache, err error) {
	err = d.Where("hash = ?", hash).First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}
	return
}

// SaveContent stores a fetched body. Content-addressing makes entries
// immutable, so conflicts are ignored.
func (d *DB) SaveContent(content *tables.ContentCache) error {
	return d.Clauses(clause.OnConflict{DoNothing: true}).Create(content).Error
}
