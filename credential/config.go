package credential

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EntryConfig is one configured credential. In YAML it is either a mapping
// with key/weight/label or a bare string holding just the key.
type EntryConfig struct {
	// Required
	Key string `yaml:"key"`

	// Optional. Positive, defaults to 1.0 when omitted
	Weight *float64 `yaml:"weight"`

	// Optional. Unique within the pool
	Label string `yaml:"label"`
}

func (ec *EntryConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*ec = EntryConfig{}
		return value.Decode(&ec.Key)
	}

	type plain EntryConfig
	return value.Decode((*plain)(ec))
}

func (ec EntryConfig) record() Record {
	weight := DefaultWeight
	if ec.Weight != nil {
		weight = *ec.Weight
	}
	return Record{
		secret: strings.TrimSpace(ec.Key),
		weight: weight,
		label:  ec.Label,
	}
}

// FromConfig converts the configuration surface into a validated Pool.
// A non-empty entry list takes precedence; otherwise a legacy single key is
// normalized into a one-record pool with the default weight.
func FromConfig(legacy string, entries []EntryConfig) (*Pool, error) {
	legacy = strings.TrimSpace(legacy)
	if len(entries) == 0 {
		if legacy == "" {
			return Validate(nil)
		}
		return Legacy(legacy)
	}

	if legacy != "" {
		logrus.Warnf("both a legacy api key and %d api key entries are configured, ignoring the legacy key", len(entries))
	}

	records := make([]Record, 0, len(entries))
	for _, ec := range entries {
		records = append(records, ec.record())
	}
	return Validate(records)
}

// Legacy wraps a single secret into a one-record pool with the default weight.
func Legacy(secret string) (*Pool, error) {
	return Validate([]Record{{secret: secret, weight: DefaultWeight}})
}
