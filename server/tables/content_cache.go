package tables

import "time"

// ContentCache stores gateway-fetched evidence bodies keyed by content
// hash. Bodies are brotli-compressed at rest; content-addressing makes the
// cache immutable, so entries never need invalidation.
type ContentCache struct {
	Id              uint64    `gorm:"column:id;primary_key;AUTO_INCREMENT;NOT NULL"`
	Hash            string    `gorm:"column:hash;type:varchar(128);uniqueIndex:uqx_hash;default:'';NOT NULL"`
	ContentType     string    `gorm:"column:content_type;type:varchar(255);default:'';NOT NULL"`
	ContentEncoding string    `gorm:"column:content_encoding;type:varchar(32);default:'';NOT NULL"`
	Body            []byte    `gorm:"column:body;type:mediumblob"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP;NOT NULL"`
}
