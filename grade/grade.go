// Package grade holds the fixed A-F grade scale and the feature vector
// describing one student.
package grade

import (
	"errors"
	"fmt"
	"strings"
)

// Grade is a letter grade encoded on the ordinal scale F=1 ... A=6.
type Grade int

const (
	F Grade = iota + 1
	E
	D
	C
	B
	A
)

const (
	MinValue = int(F)
	MaxValue = int(A)
)

var ErrUnknownGrade = errors.New("unknown grade symbol")

var symbols = [...]string{F: "F", E: "E", D: "D", C: "C", B: "B", A: "A"}

// All returns the scale in ascending order.
func All() []Grade {
	return []Grade{F, E, D, C, B, A}
}

func (g Grade) Valid() bool {
	return int(g) >= MinValue && int(g) <= MaxValue
}

// Value is the numeric encoding used as the regression target.
func (g Grade) Value() int {
	return int(g)
}

func (g Grade) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Grade(%d)", int(g))
	}
	return symbols[g]
}

// Parse maps a grade symbol to its Grade. Surrounding whitespace is ignored,
// case is not.
func Parse(s string) (Grade, error) {
	s = strings.TrimSpace(s)
	for _, g := range All() {
		if symbols[g] == s {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGrade, s)
}

// FromValue is the reverse lookup over [MinValue, MaxValue].
func FromValue(k int) (Grade, bool) {
	g := Grade(k)
	return g, g.Valid()
}

// Clamp restricts k into the scale range and returns the matching grade.
func Clamp(k int) Grade {
	if k < MinValue {
		return F
	}
	if k > MaxValue {
		return A
	}
	return Grade(k)
}

func (g Grade) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGrade, int(g))
	}
	return []byte(symbols[g]), nil
}

func (g *Grade) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}
