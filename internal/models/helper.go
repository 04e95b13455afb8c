package models

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/tiendc/go-deepcopy"
	"github.com/zeebo/blake3"
)

// Clone returns a deep copy of the structure that shares no slices or
// pointers with the receiver.
func (s Structure) Clone() (Structure, error) {
	var out Structure
	if err := deepcopy.Copy(&out, &s); err != nil {
		return Structure{}, fmt.Errorf("failed to copy structure: %w", err)
	}
	return out, nil
}

// Fingerprint is a content hash of the encoded structure. Clients send it back
// as If-Match so a stale builder cannot overwrite a newer save.
func Fingerprint(s Structure) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode structure: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:16]), nil
}

// DecodeStructure parses a wire-encoded structure.
func DecodeStructure(data []byte) (Structure, error) {
	var s Structure
	if err := json.Unmarshal(data, &s); err != nil {
		return Structure{}, fmt.Errorf("invalid structure document: %w", err)
	}
	if s.Sections == nil {
		s.Sections = []Section{}
	}
	for i := range s.Sections {
		if s.Sections[i].Questions == nil {
			s.Sections[i].Questions = []Question{}
		}
	}
	return s, nil
}
