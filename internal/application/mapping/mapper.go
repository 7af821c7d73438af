// Package mapping projects domain entities onto presentation shapes.
//
// Fields are matched by their JSON names, so a view model declares the
// same json tags as the entity fields it wants to receive. Fields without
// a counterpart are left at their zero value on the destination.
package mapping

import (
	"fmt"
	"iter"

	json "github.com/goccy/go-json"
)

// Mapper is the mapping service used by the HTTP handlers
type Mapper struct{}

// NewMapper creates a new mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapInto copies every field of source that destination declares.
// destination must be a non-nil pointer. Entity graphs must be acyclic.
func (m *Mapper) MapInto(source, destination any) error {
	data, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("mapping %T: %w", source, err)
	}
	if err := json.Unmarshal(data, destination); err != nil {
		return fmt.Errorf("mapping %T into %T: %w", source, destination, err)
	}
	return nil
}

// Map projects source onto a new D
func Map[D any](m *Mapper, source any) (*D, error) {
	var destination D
	if err := m.MapInto(source, &destination); err != nil {
		return nil, err
	}
	return &destination, nil
}

// MapAll drains seq and projects every item onto a D, stopping at the
// first error from either the sequence or the projection.
func MapAll[D, S any](m *Mapper, seq iter.Seq2[*S, error]) ([]*D, error) {
	var out []*D
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		mapped, err := Map[D](m, item)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}
