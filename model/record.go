package model

import (
	"github.com/ctsync/ctsync/constants"
	"github.com/ctsync/ctsync/storage"
)

// SortOrder selects the listing order served by the ledger query
// collaborator.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// EvidenceRecord is one anchored evidence entry as the ledger query service
// reports it. Once anchored, the owner and content references are immutable;
// only the status attribute may change, and only by the owner.
type EvidenceRecord struct {
	ID          string              `json:"id"`
	Owner       string              `json:"owner"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ImageURI    string              `json:"image_url"`
	MetadataURI string              `json:"metadata_uri"`
	ChainId     uint64              `json:"chain_id"`
	TxHash      string              `json:"mint_tx_hash"`
	CreatedAt   int64               `json:"created_at"`
	Attributes  []storage.Attribute `json:"attributes"`
}

// Attribute returns the value for a trait type, or "" if absent.
func (r *EvidenceRecord) Attribute(traitType string) string {
	for _, attr := range r.Attributes {
		if attr.TraitType == traitType {
			return attr.Value
		}
	}
	return ""
}

// Status reads the Status trait. Records without one render as Open.
func (r *EvidenceRecord) Status() constants.Status {
	if v := r.Attribute(constants.TraitStatus); v == constants.StatusResolved.String() {
		return constants.StatusResolved
	}
	return constants.StatusOpen
}

// Severity reads the Urgency trait, falling back to the legacy Severity
// trait name, then to Medium.
func (r *EvidenceRecord) Severity() constants.Severity {
	v := r.Attribute(constants.TraitUrgency)
	if v == "" {
		v = r.Attribute(constants.TraitSeverity)
	}
	switch v {
	case constants.SeverityLow.String():
		return constants.SeverityLow
	case constants.SeverityHigh.String():
		return constants.SeverityHigh
	default:
		return constants.SeverityMedium
	}
}

// ImageRef parses the stored image reference once at the boundary.
func (r *EvidenceRecord) ImageRef() storage.Reference {
	return storage.ParseReference(r.ImageURI)
}

// ExplorerURL points at the anchoring transaction on the public explorer.
func (r *EvidenceRecord) ExplorerURL() string {
	return constants.ExplorerTxPrefix + r.TxHash
}
