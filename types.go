package isotag

import (
	"encoding/json"
	"strings"
)

type FieldType int

const (
	FieldTypeANS FieldType = iota
	FieldTypeAN
	FieldTypeN
	FieldTypeB
	FieldTypeZ
	FieldTypeCustom
)

type LengthType int

const (
	LengthFixed LengthType = iota
	LengthLLVAR
	LengthLLLVAR
)

// MapperType selects one of the built-in TagMapper implementations.
// Mappers are resolved through a closed-set factory at configuration
// time; there is no lookup by name at pack/unpack time.
type MapperType int

const (
	MapperDecimal MapperType = iota
	MapperStatic
)

// SubFieldConfig describes one entry of a tagged sub-field group.
type SubFieldConfig struct {
	Type      FieldType     `json:"type"`
	Length    LengthType    `json:"length"`
	MaxLength int           `json:"max_length"`
	Tagged    bool          `json:"tagged,omitempty"`
	Tag       string        `json:"tag,omitempty"`
	Nested    *TagSetConfig `json:"nested,omitempty"`
	Wrapped   bool          `json:"wrapped,omitempty"`
}

func (sc *SubFieldConfig) UnmarshalJSON(data []byte) error {
	type Alias SubFieldConfig
	aux := &struct {
		Type   interface{} `json:"type"`
		Length interface{} `json:"length"`
		*Alias
	}{
		Alias: (*Alias)(sc),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch v := aux.Type.(type) {
	case float64:
		sc.Type = FieldType(v)
	case string:
		sc.Type = parseFieldTypeString(v)
	}

	switch v := aux.Length.(type) {
	case float64:
		sc.Length = LengthType(v)
	case string:
		sc.Length = parseLengthTypeString(v)
	}

	return nil
}

func parseFieldTypeString(s string) FieldType {
	switch strings.ToUpper(s) {
	case "ANS":
		return FieldTypeANS
	case "AN":
		return FieldTypeAN
	case "N":
		return FieldTypeN
	case "B":
		return FieldTypeB
	case "Z":
		return FieldTypeZ
	default:
		return FieldTypeCustom
	}
}

func parseLengthTypeString(s string) LengthType {
	switch strings.ToUpper(s) {
	case "LLVAR":
		return LengthLLVAR
	case "LLLVAR":
		return LengthLLLVAR
	default:
		return LengthFixed
	}
}

func parseMapperTypeString(s string) (MapperType, bool) {
	switch strings.ToLower(s) {
	case "", "decimal":
		return MapperDecimal, true
	case "static":
		return MapperStatic, true
	default:
		return MapperDecimal, false
	}
}

// TagSetConfig describes a complete tagged sub-field group: the field
// number the group occupies in the enclosing message, its sparse set of
// sub-field entries, the tag mapper, and the leniency policy.
type TagSetConfig struct {
	FieldID       int                    `json:"id"`
	FirstField    int                    `json:"first_field"`
	TagLength     int                    `json:"tag_length"`
	Mapper        string                 `json:"mapper,omitempty"`
	PackLenient   bool                   `json:"pack_lenient,omitempty"`
	UnpackLenient bool                   `json:"unpack_lenient,omitempty"`
	Fields        map[int]SubFieldConfig `json:"fields"`
}

const (
	DefaultBufferSize = 4096
	DefaultTagLength  = 2
	MaxSubFieldNumber = 255
)
