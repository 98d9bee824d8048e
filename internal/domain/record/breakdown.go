package record

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// WasteTypes is the ordered set of waste type names a project accepts.
type WasteTypes []string

// NewWasteTypes trims names, drops blanks and collapses duplicates,
// keeping the first occurrence.
func NewWasteTypes(names ...string) WasteTypes {
	seen := make(map[string]bool, len(names))
	types := make(WasteTypes, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		types = append(types, name)
	}
	return types
}

// Contains reports whether name is a configured type.
func (t WasteTypes) Contains(name string) bool {
	for _, existing := range t {
		if existing == name {
			return true
		}
	}
	return false
}

// WasteBreakdown maps a waste type to the volume (m³) generated in one period.
type WasteBreakdown map[string]float64

// Set records volume for the given type.
func (b WasteBreakdown) Set(types WasteTypes, name string, volume float64) error {
	if !types.Contains(name) {
		return fmt.Errorf("%w: %q", ErrUnknownWasteType, name)
	}
	if !validVolume(volume) {
		return fmt.Errorf("%w: %s=%v", ErrInvalidVolume, name, volume)
	}
	b[name] = volume
	return nil
}

// Remove deletes the entry for name, if any.
func (b WasteBreakdown) Remove(name string) {
	delete(b, name)
}

// Total returns the summed volume. Keys are visited in sorted order so the
// floating point result does not depend on map iteration.
func (b WasteBreakdown) Total() float64 {
	total := 0.0
	for _, name := range b.Types() {
		total += b[name]
	}
	return total
}

// Types returns the breakdown's type names in sorted order.
func (b WasteBreakdown) Types() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (b WasteBreakdown) Clone() WasteBreakdown {
	if b == nil {
		return nil
	}
	out := make(WasteBreakdown, len(b))
	for name, volume := range b {
		out[name] = volume
	}
	return out
}

// Validate checks a complete breakdown against the configured types.
func (b WasteBreakdown) Validate(types WasteTypes) error {
	if err := b.validateVolumes(); err != nil {
		return err
	}
	for _, name := range b.Types() {
		if !types.Contains(name) {
			return fmt.Errorf("%w: %q", ErrUnknownWasteType, name)
		}
	}
	return nil
}

func (b WasteBreakdown) validateVolumes() error {
	if len(b) == 0 {
		return ErrEmptyWasteBreakdown
	}
	for _, name := range b.Types() {
		if !validVolume(b[name]) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidVolume, name, b[name])
		}
	}
	return nil
}

func validVolume(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
