package fhir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedBundle is returned when a document cannot be read as a bundle
// with an entry list.
var ErrMalformedBundle = errors.New("malformed bundle")

// Bundle is a FHIR Bundle with its entries left undecoded.
type Bundle struct {
	ResourceType string        `json:"resourceType,omitempty"`
	ID           string        `json:"id,omitempty"`
	Type         string        `json:"type,omitempty"`
	Entry        []BundleEntry `json:"entry"`
}

type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
}

// DecodeBundle reads a whole bundle document. The document must be a JSON
// object carrying an "entry" array whose items are objects; anything else
// is reported as ErrMalformedBundle.
func DecodeBundle(r io.Reader) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var top struct {
		ResourceType string          `json:"resourceType"`
		ID           string          `json:"id"`
		Type         string          `json:"type"`
		Entry        json.RawMessage `json:"entry"`
	}
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBundle, err)
	}
	entries := bytes.TrimSpace(top.Entry)
	if len(entries) == 0 || bytes.Equal(entries, []byte("null")) {
		return nil, fmt.Errorf("%w: missing entry list", ErrMalformedBundle)
	}

	b := &Bundle{ResourceType: top.ResourceType, ID: top.ID, Type: top.Type}
	if err := json.Unmarshal(entries, &b.Entry); err != nil {
		return nil, fmt.Errorf("%w: entry: %v", ErrMalformedBundle, err)
	}
	return b, nil
}

// Resources decodes every entry resource in document order. Entries without
// a resource decode as *Unhandled.
func (b *Bundle) Resources() []Resource {
	out := make([]Resource, 0, len(b.Entry))
	for _, e := range b.Entry {
		out = append(out, DecodeResource(e.Resource))
	}
	return out
}
