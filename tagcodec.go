package isotag

import "fmt"

// TagCodec places a value codec behind a fixed-width tag. On unpack it
// recognizes its span by reading the tag at the offset and resolving it
// through the shared TagMapper; on pack it emits the tag followed by the
// inner encoding.
//
// The parent field number, mapper, leniency flags, and diagnostic sink
// are filled in by the enclosing TagSetPackager during configuration.
type TagCodec struct {
	fieldNum      int
	parentField   int
	tagLength     int
	inner         FieldCodec
	mapper        TagMapper
	packLenient   bool
	unpackLenient bool
	diag          DiagnosticSink
}

// NewTagCodec creates a tagged codec for the given sub-field number.
// The codec is not usable until an enclosing packager has propagated a
// TagMapper into it.
func NewTagCodec(fieldNum, tagLength int, inner FieldCodec) *TagCodec {
	return &TagCodec{
		fieldNum:  fieldNum,
		tagLength: tagLength,
		inner:     inner,
		diag:      NopSink{},
	}
}

func (tc *TagCodec) setParentField(fieldNum int)        { tc.parentField = fieldNum }
func (tc *TagCodec) setTagMapper(mapper TagMapper)      { tc.mapper = mapper }
func (tc *TagCodec) setPackLenient(lenient bool)        { tc.packLenient = lenient }
func (tc *TagCodec) setUnpackLenient(lenient bool)      { tc.unpackLenient = lenient }
func (tc *TagCodec) setDiagnostics(sink DiagnosticSink) { tc.diag = sink }

// ParentField returns the field number of the enclosing group.
func (tc *TagCodec) ParentField() int { return tc.parentField }

// Mapper returns the shared tag mapper.
func (tc *TagCodec) Mapper() TagMapper { return tc.mapper }

// UnpackField reads the tag at offset and resolves it against the
// mapper. A tag belonging to another sub-field is simply not a match; an
// unmapped tag is fatal unless unpacking is lenient.
func (tc *TagCodec) UnpackField(fieldNum int, data []byte, offset int) (int, *Component, error) {
	if len(data)-offset < tc.tagLength {
		return 0, nil, nil
	}
	if tc.mapper == nil {
		return 0, nil, fmt.Errorf("field %d: %w", tc.fieldNum, ErrUnknownMapper)
	}

	tag := string(data[offset : offset+tc.tagLength])
	mapped, ok := tc.mapper.FieldForTag(tc.parentField, tag)
	if !ok {
		if tc.unpackLenient {
			return 0, nil, nil
		}
		return 0, nil, fmt.Errorf("%w: %q in field %d", ErrUnknownTag, tag, tc.parentField)
	}
	if mapped != tc.fieldNum {
		return 0, nil, nil
	}

	consumed, c, err := tc.inner.UnpackField(tc.fieldNum, data, offset+tc.tagLength)
	if err != nil {
		return 0, nil, err
	}
	if consumed == 0 {
		return 0, nil, nil
	}
	return tc.tagLength + consumed, c, nil
}

// PackField emits the tag followed by the inner encoding. A missing
// field-to-tag mapping packs to zero bytes when packing is lenient and
// fails otherwise.
func (tc *TagCodec) PackField(c *Component) ([]byte, error) {
	if tc.mapper == nil {
		return nil, fmt.Errorf("field %d: %w", tc.fieldNum, ErrUnknownMapper)
	}

	tag, ok := tc.mapper.TagForField(tc.parentField, tc.fieldNum)
	if !ok {
		if tc.packLenient {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: field %d in field %d", ErrTagNotMapped, tc.fieldNum, tc.parentField)
	}

	value, err := tc.inner.PackField(c)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(tag)+len(value))
	out = append(out, tag...)
	out = append(out, value...)
	return out, nil
}
