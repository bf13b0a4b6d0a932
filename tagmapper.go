package isotag

import (
	"github.com/pkg/errors"
)

// TagMapper resolves between sub-field numbers and their external tag
// representation. Lookups are scoped by the field number of the
// enclosing group, so one mapper instance can serve every nesting level.
// Implementations must be reentrant: a single instance is shared by all
// pack/unpack calls after configuration.
type TagMapper interface {
	// FieldForTag returns the sub-field number a tag maps to within the
	// given enclosing field, or false if the tag is not mapped.
	FieldForTag(parentField int, tag string) (int, bool)

	// TagForField returns the tag for a sub-field within the given
	// enclosing field, or false if no mapping exists.
	TagForField(parentField, fieldNum int) (string, bool)
}

// newTagMapper resolves a configured mapper name to a concrete
// implementation. The set of mappers is closed; unknown names fail at
// configuration time.
func newTagMapper(cfg *TagSetConfig) (TagMapper, error) {
	mt, ok := parseMapperTypeString(cfg.Mapper)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMapper, "mapper %q", cfg.Mapper)
	}
	switch mt {
	case MapperStatic:
		return newStaticTagMapper(cfg)
	default:
		width := cfg.TagLength
		if width <= 0 {
			width = DefaultTagLength
		}
		return DecimalTagMapper{Width: width}, nil
	}
}

// DecimalTagMapper maps a sub-field number to its zero-padded decimal
// representation. The enclosing field number does not participate in the
// mapping; every group shares the same numeric tag space.
type DecimalTagMapper struct {
	Width int
}

func (m DecimalTagMapper) FieldForTag(parentField int, tag string) (int, bool) {
	if len(tag) != m.Width {
		return 0, false
	}
	n := 0
	for i := 0; i < len(tag); i++ {
		ch := tag[i] - '0'
		if ch > 9 {
			return 0, false
		}
		n = n*10 + int(ch)
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}

func (m DecimalTagMapper) TagForField(parentField, fieldNum int) (string, bool) {
	if fieldNum <= 0 {
		return "", false
	}
	buf := make([]byte, m.Width)
	n := fieldNum
	for i := m.Width - 1; i >= 0; i-- {
		buf[i] = byte(n%10 + '0')
		n /= 10
	}
	if n != 0 { // field number does not fit the tag width
		return "", false
	}
	return string(buf), true
}

// StaticTagMapper holds an explicit tag table compiled from a
// descriptor. Tables are keyed by enclosing field number and are
// immutable after construction.
type StaticTagMapper struct {
	byTag   map[int]map[string]int
	byField map[int]map[int]string
}

// newStaticTagMapper compiles the tag tables for a group and all nested
// groups reachable from it. Every tagged entry must carry an explicit
// tag of the configured width, unique within its group.
func newStaticTagMapper(cfg *TagSetConfig) (*StaticTagMapper, error) {
	m := &StaticTagMapper{
		byTag:   make(map[int]map[string]int),
		byField: make(map[int]map[int]string),
	}
	if err := m.register(cfg); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *StaticTagMapper) register(cfg *TagSetConfig) error {
	tags := make(map[string]int, len(cfg.Fields))
	fields := make(map[int]string, len(cfg.Fields))

	for num, sub := range cfg.Fields {
		if sub.Nested != nil {
			if err := m.register(sub.Nested); err != nil {
				return err
			}
		}
		if sub.Tag == "" {
			continue
		}
		if len(sub.Tag) != cfg.TagLength {
			return errors.Wrapf(ErrInvalidTagSize, "field %d tag %q, want %d chars", num, sub.Tag, cfg.TagLength)
		}
		if prev, ok := tags[sub.Tag]; ok {
			return errors.Wrapf(ErrDuplicateTag, "tag %q on fields %d and %d", sub.Tag, prev, num)
		}
		tags[sub.Tag] = num
		fields[num] = sub.Tag
	}

	m.byTag[cfg.FieldID] = tags
	m.byField[cfg.FieldID] = fields
	return nil
}

func (m *StaticTagMapper) FieldForTag(parentField int, tag string) (int, bool) {
	num, ok := m.byTag[parentField][tag]
	return num, ok
}

func (m *StaticTagMapper) TagForField(parentField, fieldNum int) (string, bool) {
	tag, ok := m.byField[parentField][fieldNum]
	return tag, ok
}
