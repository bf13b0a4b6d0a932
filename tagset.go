package isotag

import (
	"sort"

	"github.com/pkg/errors"
)

// TagSetPackager packs and unpacks a group of sub-fields that are
// identified by content-recognized tags instead of a presence bitmap.
// Sub-fields appear back to back in any order; unpacking resolves which
// candidate owns which span of bytes by greedy tag resolution.
//
// A packager is compiled once from a TagSetConfig, is immutable
// afterward, and is safe for concurrent use against independent buffers
// and component trees, provided the supplied codecs and mapper are
// themselves reentrant.
type TagSetPackager struct {
	fieldID     int // field this group occupies in the enclosing message
	parentField int // set by an enclosing packager when nested
	firstField  int

	codecs    map[int]FieldCodec
	fieldNums []int // ascending snapshot of configured sub-field numbers

	mapper        TagMapper
	packLenient   bool
	unpackLenient bool
	diag          DiagnosticSink
}

// NewTagSetPackager compiles a packager from a descriptor. The tag
// mapper is resolved once here; configuration failures are fatal before
// any pack/unpack call is reachable.
func NewTagSetPackager(cfg *TagSetConfig, opts ...PackagerOption) (*TagSetPackager, error) {
	mapper, err := newTagMapper(cfg)
	if err != nil {
		return nil, err
	}

	p, err := compileTagSet(cfg, mapper, NopSink{})
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// compileTagSet builds one group level and recurses into nested groups.
// Nested levels share the mapper and sink; their leniency is overwritten
// by propagation from the enclosing level afterward.
func compileTagSet(cfg *TagSetConfig, mapper TagMapper, sink DiagnosticSink) (*TagSetPackager, error) {
	firstField := cfg.FirstField
	if firstField <= 0 {
		firstField = 1
	}
	tagLength := cfg.TagLength
	if tagLength <= 0 {
		tagLength = DefaultTagLength
	}

	p := &TagSetPackager{
		fieldID:       cfg.FieldID,
		firstField:    firstField,
		codecs:        make(map[int]FieldCodec, len(cfg.Fields)),
		mapper:        mapper,
		packLenient:   cfg.PackLenient,
		unpackLenient: cfg.UnpackLenient,
		diag:          sink,
	}

	for num, sub := range cfg.Fields {
		if num < firstField || num > MaxSubFieldNumber {
			return nil, errors.Wrapf(ErrInvalidConfig, "field %d outside range %d-%d", num, firstField, MaxSubFieldNumber)
		}

		codec, err := compileSubField(num, tagLength, sub, mapper, sink)
		if err != nil {
			return nil, err
		}
		p.codecs[num] = codec
		p.fieldNums = append(p.fieldNums, num)
	}
	sort.Ints(p.fieldNums)

	p.propagate()
	return p, nil
}

func compileSubField(num, tagLength int, sub SubFieldConfig, mapper TagMapper, sink DiagnosticSink) (FieldCodec, error) {
	var codec FieldCodec

	if sub.Nested != nil {
		nested, err := compileTagSet(sub.Nested, mapper, sink)
		if err != nil {
			return nil, err
		}
		switch sub.Length {
		case LengthLLVAR:
			codec = groupVarCodec{lenDigits: 2, group: nested}
		case LengthLLLVAR:
			codec = groupVarCodec{lenDigits: 3, group: nested}
		default:
			codec = nested
		}
	} else {
		if sub.MaxLength <= 0 {
			return nil, errors.Wrapf(ErrInvalidConfig, "field %d has no length", num)
		}
		switch sub.Length {
		case LengthLLVAR:
			codec = LLVarCodec{MaxLength: sub.MaxLength, Type: sub.Type}
		case LengthLLLVAR:
			codec = LLLVarCodec{MaxLength: sub.MaxLength, Type: sub.Type}
		default:
			codec = FixedCodec{Length: sub.MaxLength, Type: sub.Type}
		}
		if sub.Tagged || sub.Tag != "" {
			codec = NewTagCodec(num, tagLength, codec)
		}
	}

	if sub.Wrapped {
		if _, framed := codec.(groupVarCodec); framed {
			// Propagation unwraps a single layer; a second wrapper
			// around a framed group would hide it.
			return nil, errors.Wrapf(ErrInvalidConfig, "field %d: framed nested group cannot be wrapped", num)
		}
		codec = MsgCodec{Inner: codec}
	}
	return codec, nil
}

// propagate pushes the shared mapper, leniency, and sink into every
// tag-aware entry codec, unwrapping one pass-through layer where
// needed. A leaf tagged codec resolves its tags relative to the group
// containing it, so it receives this group's field number as its
// parent; a nested group is addressed by the entry it occupies, so it
// records that entry's field number instead. Nested groups cascade the
// same state to their own entries through their setters.
func (p *TagSetPackager) propagate() {
	for _, num := range p.fieldNums {
		target := p.codecs[num]
		if u, ok := target.(Unwrapper); ok {
			target = u.Unwrap()
		}
		ta, ok := target.(tagAware)
		if !ok {
			continue
		}
		if _, nested := target.(*TagSetPackager); nested {
			ta.setParentField(num)
		} else {
			ta.setParentField(p.fieldID)
		}
		ta.setTagMapper(p.mapper)
		ta.setPackLenient(p.packLenient)
		ta.setUnpackLenient(p.unpackLenient)
		ta.setDiagnostics(p.diag)
	}
}

func (p *TagSetPackager) setParentField(fieldNum int) {
	p.parentField = fieldNum
}

func (p *TagSetPackager) setTagMapper(mapper TagMapper) {
	p.mapper = mapper
	p.propagate()
}

func (p *TagSetPackager) setPackLenient(lenient bool) {
	p.packLenient = lenient
	p.propagate()
}

func (p *TagSetPackager) setUnpackLenient(lenient bool) {
	p.unpackLenient = lenient
	p.propagate()
}

func (p *TagSetPackager) setDiagnostics(sink DiagnosticSink) {
	p.diag = sink
	p.propagate()
}

// FieldNum returns the field number this group occupies in the
// enclosing message.
func (p *TagSetPackager) FieldNum() int { return p.fieldID }

// ParentField returns the field number of the enclosing group, or 0 for
// a top-level packager.
func (p *TagSetPackager) ParentField() int { return p.parentField }

// Mapper returns the shared tag mapper.
func (p *TagSetPackager) Mapper() TagMapper { return p.mapper }

// IsPackLenient reports whether a missing field-to-tag mapping is
// tolerated when packing.
func (p *TagSetPackager) IsPackLenient() bool { return p.packLenient }

// IsUnpackLenient reports whether an unknown tag is tolerated when
// unpacking.
func (p *TagSetPackager) IsUnpackLenient() bool { return p.unpackLenient }

// Unpack consumes raw group bytes into the composite m and returns the
// number of bytes consumed.
//
// Candidates start as every configured sub-field. Each pass scans the
// remaining candidates in ascending field order and commits to the
// first whose codec reports a positive consumed count; the winner is
// removed from the candidate set and the scan restarts at the new
// offset. The loop ends when the buffer is exhausted, no candidates
// remain, or a full pass matches nothing. Consuming fewer bytes than
// the buffer holds is not an error; it is surfaced to the diagnostic
// sink only.
func (p *TagSetPackager) Unpack(m *Component, data []byte) (int, error) {
	if m == nil || !m.IsComposite() {
		return 0, ErrNotComposite
	}
	p.diag.UnpackStart(p.fieldID, data)
	if len(data) == 0 {
		return 0, nil
	}

	remaining := make(map[int]struct{}, len(p.fieldNums))
	for _, num := range p.fieldNums {
		remaining[num] = struct{}{}
	}

	consumed := 0
	for consumed < len(data) && len(remaining) > 0 {
		n, err := p.unpackNext(remaining, m, data, consumed)
		if err != nil {
			return consumed, err
		}
		if n == 0 {
			// All remaining candidates were tested against this
			// offset and none matched.
			break
		}
		consumed += n
	}

	if consumed != len(data) {
		p.diag.ConsumptionMismatch(p.fieldID, len(data), consumed)
	}
	return consumed, nil
}

// unpackNext runs one scan pass over the remaining candidates. The scan
// iterates the immutable ordered field snapshot; the authoritative
// candidate set is only mutated after a match.
func (p *TagSetPackager) unpackNext(remaining map[int]struct{}, m *Component, data []byte, offset int) (int, error) {
	for _, num := range p.fieldNums {
		if _, ok := remaining[num]; !ok {
			continue
		}
		n, c, err := p.codecs[num].UnpackField(num, data, offset)
		if err != nil {
			p.diag.FieldError(p.fieldID, num, err)
			return 0, &FieldError{Field: num, Err: err}
		}
		if n > 0 {
			m.Set(c)
			delete(remaining, num)
			return n, nil
		}
	}
	return 0, nil
}

// Pack serializes the composite's children in ascending field order and
// returns the bare concatenation of the per-field encodings. The first
// codec failure aborts the call; no partial output is returned.
func (p *TagSetPackager) Pack(m *Component) ([]byte, error) {
	if m == nil || !m.IsComposite() {
		return nil, ErrNotComposite
	}

	buf := getBuffer()
	defer putBuffer(buf)

	for num := p.firstField; num <= m.MaxField(); num++ {
		c, ok := m.Child(num)
		if !ok {
			continue
		}
		codec, ok := p.codecs[num]
		if !ok {
			p.diag.FieldError(p.fieldID, num, ErrFieldNotConfigured)
			return nil, &FieldError{Field: num, Err: ErrFieldNotConfigured}
		}
		b, err := codec.PackField(c)
		if err != nil {
			p.diag.FieldError(p.fieldID, num, err)
			return nil, &FieldError{Field: num, Err: err}
		}
		buf = append(buf, b...)
	}

	out := make([]byte, len(buf))
	copy(out, buf)
	p.diag.PackDone(p.fieldID, out)
	return out, nil
}

// UnpackField adapts the packager to the FieldCodec interface so a
// tagged group can itself be an entry of an enclosing group. Zero
// consumed bytes means none of the nested candidates recognized the
// offset.
func (p *TagSetPackager) UnpackField(fieldNum int, data []byte, offset int) (int, *Component, error) {
	c := NewComposite(fieldNum)
	consumed, err := p.Unpack(c, data[offset:])
	if err != nil {
		return 0, nil, err
	}
	if consumed == 0 {
		return 0, nil, nil
	}
	return consumed, c, nil
}

// PackField adapts the packager to the FieldCodec interface.
func (p *TagSetPackager) PackField(c *Component) ([]byte, error) {
	return p.Pack(c)
}
