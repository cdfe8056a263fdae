package credential

import (
	"fmt"
	"math"
)

const (
	DefaultWeight = 1.0

	previewLength = 8
)

// Record is one upstream API key. It is immutable once constructed.
type Record struct {
	secret string
	weight float64
	label  string
}

// NewRecord builds a Record, rejecting an empty secret and any weight that is
// not a finite number greater than zero.
func NewRecord(secret string, weight float64, label string) (r Record, err error) {
	r = Record{
		secret: secret,
		weight: weight,
		label:  label,
	}
	err = r.check()
	if err != nil {
		return Record{}, err
	}
	return
}

func (r Record) check() error {
	if r.secret == "" {
		return ErrEmptySecret
	}
	if !ValidWeight(r.weight) {
		return fmt.Errorf("%w, got %v", ErrInvalidWeight, r.weight)
	}
	return nil
}

// ValidWeight reports whether w is a finite number greater than zero.
func ValidWeight(w float64) bool {
	// !(w > 0) also catches NaN
	return w > 0 && !math.IsInf(w, 1)
}

// Secret returns the key material. Never log it; use Preview instead.
func (r Record) Secret() string {
	return r.secret
}

func (r Record) Weight() float64 {
	return r.weight
}

// Label is optional and only used for observability.
func (r Record) Label() string {
	return r.label
}

// Preview returns the first characters of the secret followed by "...",
// or the whole secret when it is too short to truncate.
func (r Record) Preview() string {
	runes := []rune(r.secret)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "..."
	}
	return r.secret
}

// Name is the display name of the record at position i in its pool: the
// label, or key-N (1-based) when it has none.
func (r Record) Name(i int) string {
	if r.label != "" {
		return r.label
	}
	return fmt.Sprintf("key-%d", i+1)
}

func (r Record) String() string {
	label := r.label
	if label == "" {
		label = "unnamed"
	}
	return fmt.Sprintf("%s(weight=%g, key=%s)", label, r.weight, r.Preview())
}
