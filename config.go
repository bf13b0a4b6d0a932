package isotag

import (
	"encoding/json"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// LoadTagSetFromJSON unmarshals a JSON descriptor and compiles it into
// a TagSetPackager.
func LoadTagSetFromJSON(data []byte, opts ...PackagerOption) (*TagSetPackager, error) {
	var cfg TagSetConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse tag set config")
	}
	return NewTagSetPackager(&cfg, opts...)
}

// LoadTagSetFromTOML unmarshals a TOML descriptor and compiles it into
// a TagSetPackager. Field numbers are TOML table keys, so they arrive
// as strings and are converted here.
func LoadTagSetFromTOML(data []byte, opts ...PackagerOption) (*TagSetPackager, error) {
	var raw rawTagSetTOML
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse tag set config")
	}
	cfg, err := raw.convert()
	if err != nil {
		return nil, err
	}
	return NewTagSetPackager(cfg, opts...)
}

type rawTagSetTOML struct {
	ID            int                        `toml:"id"`
	FirstField    int                        `toml:"first_field"`
	TagLength     int                        `toml:"tag_length"`
	Mapper        string                     `toml:"mapper"`
	PackLenient   bool                       `toml:"pack_lenient"`
	UnpackLenient bool                       `toml:"unpack_lenient"`
	Fields        map[string]rawSubFieldTOML `toml:"fields"`
}

type rawSubFieldTOML struct {
	Type      string         `toml:"type"`
	Length    string         `toml:"length"`
	MaxLength int            `toml:"max_length"`
	Tagged    bool           `toml:"tagged"`
	Tag       string         `toml:"tag"`
	Wrapped   bool           `toml:"wrapped"`
	Nested    *rawTagSetTOML `toml:"nested"`
}

func (r *rawTagSetTOML) convert() (*TagSetConfig, error) {
	cfg := &TagSetConfig{
		FieldID:       r.ID,
		FirstField:    r.FirstField,
		TagLength:     r.TagLength,
		Mapper:        r.Mapper,
		PackLenient:   r.PackLenient,
		UnpackLenient: r.UnpackLenient,
		Fields:        make(map[int]SubFieldConfig, len(r.Fields)),
	}

	for fieldStr, rawSub := range r.Fields {
		fieldNum, err := strconv.Atoi(fieldStr)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "invalid field number %q", fieldStr)
		}
		if fieldNum < 1 || fieldNum > MaxSubFieldNumber {
			return nil, errors.Wrapf(ErrInvalidConfig, "field number out of range (1-%d): %d", MaxSubFieldNumber, fieldNum)
		}

		sub := SubFieldConfig{
			Type:      parseFieldTypeString(rawSub.Type),
			Length:    parseLengthTypeString(rawSub.Length),
			MaxLength: rawSub.MaxLength,
			Tagged:    rawSub.Tagged,
			Tag:       rawSub.Tag,
			Wrapped:   rawSub.Wrapped,
		}
		if rawSub.Nested != nil {
			nested, err := rawSub.Nested.convert()
			if err != nil {
				return nil, err
			}
			sub.Nested = nested
		}
		cfg.Fields[fieldNum] = sub
	}

	return cfg, nil
}
