package bowling

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Pin identifies a pin in the standard triangle, 1 (head pin) to 10.
type Pin int

const (
	MinPin Pin = 1
	MaxPin Pin = 10
)

// Rack is the triangle as seen from the bowler, back row first.
var Rack = [][]Pin{
	{7, 8, 9, 10},
	{4, 5, 6},
	{2, 3},
	{1},
}

func (p Pin) Valid() bool { return p >= MinPin && p <= MaxPin }

// PinSet is an immutable set of pins stored as a bitmask.
type PinSet uint16

// FullRack holds all ten pins.
const FullRack PinSet = 0b111_1111_1110

// NewPinSet builds a set, rejecting pins outside 1..10. Duplicates collapse.
func NewPinSet(pins ...Pin) (PinSet, error) {
	var s PinSet
	for _, p := range pins {
		if !p.Valid() {
			return 0, fmt.Errorf("%w: pin %d out of range 1-10", ErrValidation, p)
		}
		s |= 1 << uint(p)
	}
	return s, nil
}

// MustPinSet panics on an invalid pin. For literals and tests.
func MustPinSet(pins ...Pin) PinSet {
	s, err := NewPinSet(pins...)
	if err != nil {
		panic(err)
	}
	return s
}

// ParsePins reads pin numbers separated by spaces or commas, e.g. "1 3, 5".
func ParsePins(s string) (PinSet, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	pins := make([]Pin, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a pin number", ErrValidation, f)
		}
		pins = append(pins, Pin(n))
	}
	return NewPinSet(pins...)
}

// Valid reports whether s holds only pins 1..10.
func (s PinSet) Valid() bool { return s&^FullRack == 0 }

func (s PinSet) Has(p Pin) bool {
	return p.Valid() && s&(1<<uint(p)) != 0
}

func (s PinSet) Len() int { return bits.OnesCount16(uint16(s)) }

func (s PinSet) Empty() bool { return s == 0 }

func (s PinSet) Intersect(o PinSet) PinSet { return s & o }

func (s PinSet) Union(o PinSet) PinSet { return s | o }

// Without returns the pins of s that are not in o.
func (s PinSet) Without(o PinSet) PinSet { return s &^ o }

// Pins lists members in ascending order.
func (s PinSet) Pins() []Pin {
	out := make([]Pin, 0, s.Len())
	for p := MinPin; p <= MaxPin; p++ {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s PinSet) String() string {
	parts := make([]string, 0, s.Len())
	for _, p := range s.Pins() {
		parts = append(parts, strconv.Itoa(int(p)))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (s PinSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Pins())
}

func (s *PinSet) UnmarshalJSON(data []byte) error {
	var pins []Pin
	if err := json.Unmarshal(data, &pins); err != nil {
		return err
	}
	set, err := NewPinSet(pins...)
	if err != nil {
		return err
	}
	*s = set
	return nil
}
