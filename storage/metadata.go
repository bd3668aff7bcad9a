package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ctsync/ctsync/constants"
	"github.com/ugorji/go/codec"
)

// Attribute is one display trait on a metadata document. Insertion order is
// preserved as given; it matters for display, not for hashing.
type Attribute struct {
	TraitType string `json:"trait_type" codec:"trait_type"`
	Value     string `json:"value" codec:"value"`
}

// Document is the canonical metadata document anchored for each evidence
// record.
type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Builder assembles metadata documents and delegates storage to an
// Addresser.
type Builder struct {
	addresser *Addresser
}

func NewBuilder(addresser *Addresser) *Builder {
	return &Builder{addresser: addresser}
}

// Build produces the canonical document referencing the uploaded image and
// uploads it, returning the metadata content reference.
func (b *Builder) Build(ctx context.Context, name, description string, attributes []Attribute, imageRef Reference) (Reference, error) {
	doc := &Document{
		Name:        name,
		Description: description,
		Image:       imageRef.URI(),
		Attributes:  attributes,
	}
	if doc.Attributes == nil {
		doc.Attributes = []Attribute{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return Reference{}, err
	}
	return b.addresser.Upload(ctx, raw, constants.ContentTypeJson.String())
}

// AttributesFromJsonFile reads extra display attributes from a JSON file
// holding an array of {trait_type, value} objects.
func AttributesFromJsonFile(path string) ([]Attribute, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0)
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("invalid json attributes in %s: %v", path, err)
	}
	return attrs, nil
}

// AttributesFromCborFile reads extra display attributes from a CBOR file
// holding the same array shape.
func AttributesFromCborFile(path string) ([]Attribute, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0)
	if err := codec.NewDecoderBytes(raw, &codec.CborHandle{}).Decode(&attrs); err != nil {
		return nil, fmt.Errorf("invalid cbor attributes in %s: %v", path, err)
	}
	return attrs, nil
}
