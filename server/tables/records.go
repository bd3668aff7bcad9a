package tables

import (
	"time"

	"github.com/ctsync/ctsync/constants"
	"github.com/ctsync/ctsync/model"
	"github.com/ctsync/ctsync/storage"
)

// Records mirrors anchored evidence records from the ledger query service.
// The anchored fields are immutable once written; only status may change,
// exactly once, Open to Resolved.
type Records struct {
	Id          uint64    `gorm:"column:id;primary_key;AUTO_INCREMENT;NOT NULL"`
	RecordId    string    `gorm:"column:record_id;type:varchar(64);uniqueIndex:uqx_record_id;default:'';NOT NULL"`
	Owner       string    `gorm:"column:owner;type:varchar(64);index:idx_owner;default:'';NOT NULL"`
	Title       string    `gorm:"column:title;type:varchar(255);default:'';NOT NULL"`
	Description string    `gorm:"column:description;type:text"`
	ImageURI    string    `gorm:"column:image_uri;type:varchar(512);default:'';NOT NULL"`
	MetadataURI string    `gorm:"column:metadata_uri;type:varchar(512);default:'';NOT NULL"`
	ChainId     uint64    `gorm:"column:chain_id;type:bigint unsigned;default:0;NOT NULL"`
	TxHash      string    `gorm:"column:tx_hash;type:varchar(66);index:idx_tx_hash;default:'';NOT NULL"`
	Urgency     string    `gorm:"column:urgency;type:varchar(16);index:idx_urgency;default:'Medium';NOT NULL"`
	Location    string    `gorm:"column:location;type:varchar(255);default:'';NOT NULL"`
	Status      string    `gorm:"column:status;type:varchar(16);index:idx_status;default:'Open';NOT NULL"`
	Timestamp   int64     `gorm:"column:timestamp;type:bigint;index:idx_timestamp;default:0;NOT NULL"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP;NOT NULL"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP;NOT NULL"`
}

// FromRecord flattens a ledger record into its table row.
func FromRecord(rec *model.EvidenceRecord) *Records {
	return &Records{
		RecordId:    rec.ID,
		Owner:       rec.Owner,
		Title:       rec.Title,
		Description: rec.Description,
		ImageURI:    rec.ImageURI,
		MetadataURI: rec.MetadataURI,
		ChainId:     rec.ChainId,
		TxHash:      rec.TxHash,
		Urgency:     rec.Severity().String(),
		Location:    rec.Attribute(constants.TraitLocation),
		Status:      rec.Status().String(),
		Timestamp:   rec.CreatedAt,
	}
}

// ToRecord rebuilds the ledger-shaped record, including the attribute set,
// for API responses.
func (r *Records) ToRecord() *model.EvidenceRecord {
	attributes := []storage.Attribute{
		{TraitType: constants.TraitUrgency, Value: r.Urgency},
	}
	if r.Location != "" {
		attributes = append(attributes, storage.Attribute{TraitType: constants.TraitLocation, Value: r.Location})
	}
	attributes = append(attributes, storage.Attribute{TraitType: constants.TraitStatus, Value: r.Status})
	return &model.EvidenceRecord{
		ID:          r.RecordId,
		Owner:       r.Owner,
		Title:       r.Title,
		Description: r.Description,
		ImageURI:    r.ImageURI,
		MetadataURI: r.MetadataURI,
		ChainId:     r.ChainId,
		TxHash:      r.TxHash,
		CreatedAt:   r.Timestamp,
		Attributes:  attributes,
	}
}
