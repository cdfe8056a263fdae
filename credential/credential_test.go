package credential

import (
	"errors"
	"math"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustRecord(t *testing.T, secret string, weight float64, label string) Record {
	t.Helper()
	r, err := NewRecord(secret, weight, label)
	require.NoError(t, err)
	return r
}

func weightPtr(w float64) *float64 {
	return &w
}

func TestNewRecordRejectsInvalidWeight(t *testing.T) {
	for _, w := range []float64{0, -1, -0.5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewRecord("sk-test", w, "")
		require.ErrorIs(t, err, ErrInvalidWeight, "weight %v", w)
	}
}

func TestNewRecordRejectsEmptySecret(t *testing.T) {
	_, err := NewRecord("", 1, "a")
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestRecordPreview(t *testing.T) {
	long := mustRecord(t, "sk-abcdefghijklmnop", 1, "")
	assert.Equal(t, "sk-abcde...", long.Preview())
	assert.NotContains(t, long.String(), long.Secret())
	assert.Contains(t, long.String(), "unnamed")

	short := mustRecord(t, "short", 1, "s")
	assert.Equal(t, "short", short.Preview())

	multiByte := mustRecord(t, "ключ-секрет-1", 1, "")
	assert.Equal(t, "ключ-сек...", multiByte.Preview())
	assert.True(t, utf8.ValidString(multiByte.Preview()))

	exact := mustRecord(t, "ключ-сек", 1, "")
	assert.Equal(t, "ключ-сек", exact.Preview())
}

func TestRecordName(t *testing.T) {
	assert.Equal(t, "key-3", mustRecord(t, "sk-a", 1, "").Name(2))
	assert.Equal(t, "primary", mustRecord(t, "sk-a", 1, "primary").Name(2))
}

func TestValidateEmptyPool(t *testing.T) {
	_, err := NewPool()
	require.ErrorIs(t, err, ErrEmptyPool)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, -1, ve.Index)
}

func TestValidateIdentifiesInvalidEntry(t *testing.T) {
	records := []Record{
		mustRecord(t, "sk-a", 1, "a"),
		{secret: "sk-b", weight: -2, label: "b"},
	}
	_, err := Validate(records)
	require.ErrorIs(t, err, ErrInvalidWeight)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 1, ve.Index)
	assert.Equal(t, "b", ve.Label)
	assert.Contains(t, err.Error(), "entry 1")
}

func TestValidateZeroValueRecord(t *testing.T) {
	_, err := Validate([]Record{{}})
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestValidateDuplicateLabel(t *testing.T) {
	_, err := NewPool(
		mustRecord(t, "sk-a", 1, "dup"),
		mustRecord(t, "sk-b", 1, ""),
		mustRecord(t, "sk-c", 1, "dup"),
	)
	require.ErrorIs(t, err, ErrDuplicateLabel)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 2, ve.Index)
	assert.Equal(t, 0, ve.FirstIndex)
	assert.Equal(t, "dup", ve.Label)
}

func TestValidateLabelCollidesWithDefaultName(t *testing.T) {
	_, err := NewPool(
		mustRecord(t, "sk-aaaaaaaa", 1, ""),
		mustRecord(t, "sk-bbbbbbbb", 1, "key-1"),
	)
	require.ErrorIs(t, err, ErrDuplicateLabel)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 1, ve.Index)
	assert.Equal(t, 0, ve.FirstIndex)
	assert.Equal(t, "key-1", ve.Label)

	// a label matching the default name of its own position is fine
	_, err = NewPool(
		mustRecord(t, "sk-aaaaaaaa", 1, "key-1"),
		mustRecord(t, "sk-bbbbbbbb", 1, ""),
	)
	require.NoError(t, err)
}

func TestValidateRejectsOverflowingTotalWeight(t *testing.T) {
	_, err := NewPool(
		mustRecord(t, "sk-aaaaaaaa", 1e308, ""),
		mustRecord(t, "sk-bbbbbbbb", 1e308, ""),
	)
	require.ErrorIs(t, err, ErrInvalidWeight)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, -1, ve.Index)
}

func TestValidateLabelsAreCaseSensitive(t *testing.T) {
	_, err := NewPool(
		mustRecord(t, "sk-a", 1, "Dup"),
		mustRecord(t, "sk-b", 1, "dup"),
		mustRecord(t, "sk-c", 1, ""),
		mustRecord(t, "sk-d", 1, ""),
	)
	require.NoError(t, err)
}

func TestValidateReportsFirstFailureOnly(t *testing.T) {
	// weight failure comes before the duplicate label check
	records := []Record{
		mustRecord(t, "sk-a", 1, "dup"),
		mustRecord(t, "sk-b", 1, "dup"),
		{secret: "sk-c", weight: 0},
	}
	_, err := Validate(records)
	require.ErrorIs(t, err, ErrInvalidWeight)
	require.False(t, errors.Is(err, ErrDuplicateLabel))
}

func TestPoolTotalWeightAndCopy(t *testing.T) {
	records := []Record{
		mustRecord(t, "sk-a", 3, "a"),
		mustRecord(t, "sk-b", 2, "b"),
		mustRecord(t, "sk-c", 1, "c"),
	}
	p, err := Validate(records)
	require.NoError(t, err)
	assert.Equal(t, 6.0, p.TotalWeight())
	assert.Equal(t, 3, p.Len())

	records[0] = mustRecord(t, "sk-z", 9, "z")
	assert.Equal(t, "a", p.At(0).Label())

	out := p.Records()
	out[1] = Record{}
	assert.Equal(t, "b", p.At(1).Label())

	r, ok := p.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, "sk-c", r.Secret())
	_, ok = p.Lookup("")
	assert.False(t, ok)
}

func TestEntryConfigYAML(t *testing.T) {
	doc := `
- key: sk-primary
  weight: 3
  label: primary
- sk-bare
- key: sk-zero
  weight: 0
`
	var entries []EntryConfig
	require.NoError(t, yaml.Unmarshal([]byte(doc), &entries))
	require.Len(t, entries, 3)

	assert.Equal(t, "sk-primary", entries[0].Key)
	require.NotNil(t, entries[0].Weight)
	assert.Equal(t, 3.0, *entries[0].Weight)

	assert.Equal(t, "sk-bare", entries[1].Key)
	assert.Nil(t, entries[1].Weight)
	assert.Empty(t, entries[1].Label)

	require.NotNil(t, entries[2].Weight)
	assert.Equal(t, 0.0, *entries[2].Weight)
}

func TestFromConfig(t *testing.T) {
	cases := []struct {
		name    string
		legacy  string
		entries []EntryConfig
		wantErr error
		want    []float64
	}{
		{
			name:    "nothing configured",
			wantErr: ErrEmptyPool,
		},
		{
			name:   "legacy only",
			legacy: "sk-legacy",
			want:   []float64{1},
		},
		{
			name:   "entries win over legacy",
			legacy: "sk-legacy",
			entries: []EntryConfig{
				{Key: "sk-a", Weight: weightPtr(2)},
				{Key: "sk-b"},
			},
			want: []float64{2, 1},
		},
		{
			name:    "explicit zero weight",
			entries: []EntryConfig{{Key: "sk-a", Weight: weightPtr(0)}},
			wantErr: ErrInvalidWeight,
		},
		{
			name:    "blank key",
			entries: []EntryConfig{{Key: "   "}},
			wantErr: ErrEmptySecret,
		},
		{
			name: "duplicate label",
			entries: []EntryConfig{
				{Key: "sk-a", Label: "dup"},
				{Key: "sk-b", Label: "dup"},
			},
			wantErr: ErrDuplicateLabel,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := FromConfig(tc.legacy, tc.entries)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(tc.want), p.Len())
			for i, w := range tc.want {
				assert.Equal(t, w, p.At(i).Weight())
			}
		})
	}
}

func TestLegacyIsOneRecordPool(t *testing.T) {
	p, err := Legacy("sk-legacy")
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())
	assert.Equal(t, DefaultWeight, p.At(0).Weight())
	assert.Empty(t, p.At(0).Label())
	assert.Equal(t, 1.0, p.TotalWeight())

	_, err = Legacy("")
	require.ErrorIs(t, err, ErrEmptySecret)
}
