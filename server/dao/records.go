package dao

import (
	"errors"

	"github.com/ctsync/ctsync/constants"
	"github.com/ctsync/ctsync/model"
	"github.com/ctsync/ctsync/server/tables"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveRecord upserts a mirrored ledger record. Anchored fields are written
// once; re-syncing an existing record only refreshes the mutable columns.
func (d *DB) SaveRecord(rec *tables.Records) error {
	return d.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"urgency", "status", "updated_at"}),
	}).Create(rec).Error
}

// GetRecordByRecordId returns the mirrored record, with a zero Id when it
// does not exist.
func (d *DB) GetRecordByRecordId(recordId string) (rec tables.Records, err error) {
	err = d.Where("record_id = ?", recordId).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}
	return
}

// FindRecordsByPage pages through mirrored records in the requested order.
// It returns up to pageSize+1 rows so callers can derive a "more" flag.
func (d *DB) FindRecordsByPage(page, pageSize int, sort model.SortOrder) (recs []tables.Records, err error) {
	order := "timestamp desc"
	if sort == model.SortOldest {
		order = "timestamp asc"
	}
	err = d.Order(order).
		Offset((page - 1) * pageSize).
		Limit(pageSize + 1).
		Find(&recs).Error
	return
}

// MarkResolved transitions a record Open to Resolved exactly once, and only
// for the original owner. It reports whether a row actually transitioned;
// false with a nil error means the record was missing, already resolved, or
// owned by someone else.
func (d *DB) MarkResolved(recordId, owner string) (bool, error) {
	res := d.Model(&tables.Records{}).
		Where("record_id = ? AND owner = ? AND status = ?",
			recordId, owner, constants.StatusOpen.String()).
		Update("status", constants.StatusResolved.String())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
