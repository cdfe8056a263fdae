package credential

import "fmt"

// Pool is the validated, ordered and immutable set of records backing one
// selection manager. Reconfiguration builds a new Pool instead of mutating.
type Pool struct {
	records     []Record
	totalWeight float64
}

// NewPool validates records and returns a Pool holding a private copy of them.
func NewPool(records ...Record) (*Pool, error) {
	return Validate(records)
}

// Validate runs the pool checks in a fixed order and returns the first
// failure only:
//  1. the pool is not empty
//  2. every record has a secret and a positive weight
//  3. display names are unique (case-sensitive), so a label cannot
//     collide with the key-N name of an unlabeled record
//  4. the total weight is finite
func Validate(records []Record) (p *Pool, err error) {
	if len(records) == 0 {
		err = &ValidationError{Index: -1, Err: ErrEmptyPool}
		return
	}

	for i, r := range records {
		if err = r.check(); err != nil {
			err = &ValidationError{Index: i, Label: r.label, Err: err}
			return
		}
	}

	seen := make(map[string]int, len(records))
	for i, r := range records {
		name := r.Name(i)
		if first, ok := seen[name]; ok {
			err = &ValidationError{
				Index:      i,
				Label:      name,
				FirstIndex: first,
				Err:        ErrDuplicateLabel,
			}
			return
		}
		seen[name] = i
	}

	var total float64
	for _, r := range records {
		total += r.weight
	}
	if !ValidWeight(total) {
		err = &ValidationError{Index: -1, Err: fmt.Errorf("%w: total weight overflows", ErrInvalidWeight)}
		return
	}

	p = &Pool{
		records:     make([]Record, len(records)),
		totalWeight: total,
	}
	copy(p.records, records)
	return
}

func (p *Pool) Len() int {
	return len(p.records)
}

// At returns the record at position i in pool order.
func (p *Pool) At(i int) Record {
	return p.records[i]
}

// Records returns a copy of the records in pool order.
func (p *Pool) Records() []Record {
	out := make([]Record, len(p.records))
	copy(out, p.records)
	return out
}

// TotalWeight is the sum of all record weights, computed at construction.
func (p *Pool) TotalWeight() float64 {
	return p.totalWeight
}

// Lookup finds a record by its label. Unlabeled records are never matched.
func (p *Pool) Lookup(label string) (Record, bool) {
	if label == "" {
		return Record{}, false
	}
	for _, r := range p.records {
		if r.label == label {
			return r, true
		}
	}
	return Record{}, false
}
