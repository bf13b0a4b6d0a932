package isotag

import "fmt"

// FieldCodec packs and unpacks exactly one sub-field's raw bytes.
//
// UnpackField attempts a decode at the given offset. A consumed count of
// zero means the bytes are not recognized by this codec; that is not an
// error. Codecs return an error only for data they own that turns out to
// be malformed.
type FieldCodec interface {
	UnpackField(fieldNum int, data []byte, offset int) (int, *Component, error)
	PackField(c *Component) ([]byte, error)
}

// Unwrapper is implemented by pass-through wrapper codecs. Configuration
// unwraps exactly one layer when looking for tag-aware codecs to
// propagate shared state into.
type Unwrapper interface {
	Unwrap() FieldCodec
}

// tagAware is the capability propagated into at configuration time:
// leaf tagged codecs and nested tag set packagers receive the enclosing
// group's field number, the shared mapper, the leniency flags, and the
// diagnostic sink.
type tagAware interface {
	setParentField(fieldNum int)
	setTagMapper(mapper TagMapper)
	setPackLenient(lenient bool)
	setUnpackLenient(lenient bool)
	setDiagnostics(sink DiagnosticSink)
}

// FixedCodec handles fixed-length values. Unpack consumes exactly
// Length bytes; fewer remaining bytes means the codec does not match.
type FixedCodec struct {
	Length int
	Type   FieldType
}

func (fc FixedCodec) UnpackField(fieldNum int, data []byte, offset int) (int, *Component, error) {
	if len(data)-offset < fc.Length {
		return 0, nil, nil
	}
	return fc.Length, NewLeaf(fieldNum, data[offset:offset+fc.Length]), nil
}

func (fc FixedCodec) PackField(c *Component) ([]byte, error) {
	value := c.Value()
	if len(value) != fc.Length {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, fc.Length, len(value))
	}
	if err := checkContent(fc.Type, value); err != nil {
		return nil, err
	}
	out := make([]byte, fc.Length)
	copy(out, value)
	return out, nil
}

// LLVarCodec handles values carrying a 2-digit ASCII decimal length
// prefix. LLLVarCodec is the 3-digit variant.
type LLVarCodec struct {
	MaxLength int
	Type      FieldType
}

func (lc LLVarCodec) UnpackField(fieldNum int, data []byte, offset int) (int, *Component, error) {
	return unpackVar(fieldNum, data, offset, 2, lc.MaxLength)
}

func (lc LLVarCodec) PackField(c *Component) ([]byte, error) {
	return packVar(c, 2, lc.MaxLength, lc.Type)
}

type LLLVarCodec struct {
	MaxLength int
	Type      FieldType
}

func (lc LLLVarCodec) UnpackField(fieldNum int, data []byte, offset int) (int, *Component, error) {
	return unpackVar(fieldNum, data, offset, 3, lc.MaxLength)
}

func (lc LLLVarCodec) PackField(c *Component) ([]byte, error) {
	return packVar(c, 3, lc.MaxLength, lc.Type)
}

// unpackVar reads an ASCII decimal length prefix of lenDigits digits
// followed by that many value bytes. A prefix that is not all digits, or
// a declared length over the maximum, is treated as not recognized. A
// valid prefix with a truncated value is malformed data the codec owns.
func unpackVar(fieldNum int, data []byte, offset, lenDigits, maxLength int) (int, *Component, error) {
	if len(data)-offset < lenDigits {
		return 0, nil, nil
	}
	length := 0
	for i := 0; i < lenDigits; i++ {
		ch := data[offset+i] - '0'
		if ch > 9 {
			return 0, nil, nil
		}
		length = length*10 + int(ch)
	}
	if maxLength > 0 && length > maxLength {
		return 0, nil, nil
	}
	start := offset + lenDigits
	if len(data)-start < length {
		return 0, nil, fmt.Errorf("%w: declared %d, remaining %d", ErrInsufficientData, length, len(data)-start)
	}
	return lenDigits + length, NewLeaf(fieldNum, data[start:start+length]), nil
}

func packVar(c *Component, lenDigits, maxLength int, fieldType FieldType) ([]byte, error) {
	value := c.Value()
	if maxLength > 0 && len(value) > maxLength {
		return nil, fmt.Errorf("%w: %d exceeds maximum %d", ErrInvalidLength, len(value), maxLength)
	}
	if err := checkContent(fieldType, value); err != nil {
		return nil, err
	}
	out := make([]byte, lenDigits+len(value))
	writeIntToASCII(out[:lenDigits], len(value), lenDigits)
	copy(out[lenDigits:], value)
	return out, nil
}

// checkContent enforces the character class for the field type.
func checkContent(fieldType FieldType, value []byte) error {
	switch fieldType {
	case FieldTypeN:
		for i, ch := range value {
			if ch < '0' || ch > '9' {
				return fmt.Errorf("non-numeric character at position %d", i)
			}
		}
	case FieldTypeANS, FieldTypeAN:
		for i, ch := range value {
			if ch < 32 || ch > 126 {
				return fmt.Errorf("invalid character at position %d", i)
			}
		}
	}
	return nil
}

// writeIntToASCII formats an integer into a byte slice with fixed-width
// zero padding.
func writeIntToASCII(buf []byte, val, digits int) {
	for i := digits - 1; i >= 0; i-- {
		buf[i] = byte(val%10 + '0')
		val /= 10
	}
}

// groupVarCodec frames a nested tagged group behind an ASCII decimal
// length prefix, handing the group exactly its own byte slice. This is
// how strict nested groups are carried safely: without framing, a strict
// nested scan would reject tags that belong to the enclosing group.
type groupVarCodec struct {
	lenDigits int
	group     *TagSetPackager
}

func (gc groupVarCodec) UnpackField(fieldNum int, data []byte, offset int) (int, *Component, error) {
	if len(data)-offset < gc.lenDigits {
		return 0, nil, nil
	}
	length := 0
	for i := 0; i < gc.lenDigits; i++ {
		ch := data[offset+i] - '0'
		if ch > 9 {
			return 0, nil, nil
		}
		length = length*10 + int(ch)
	}
	start := offset + gc.lenDigits
	if len(data)-start < length {
		return 0, nil, fmt.Errorf("%w: declared %d, remaining %d", ErrInsufficientData, length, len(data)-start)
	}

	c := NewComposite(fieldNum)
	if _, err := gc.group.Unpack(c, data[start:start+length]); err != nil {
		return 0, nil, err
	}
	return gc.lenDigits + length, c, nil
}

func (gc groupVarCodec) PackField(c *Component) ([]byte, error) {
	body, err := gc.group.Pack(c)
	if err != nil {
		return nil, err
	}
	out := make([]byte, gc.lenDigits+len(body))
	writeIntToASCII(out[:gc.lenDigits], len(body), gc.lenDigits)
	copy(out[gc.lenDigits:], body)
	return out, nil
}

func (gc groupVarCodec) Unwrap() FieldCodec {
	return gc.group
}

// MsgCodec is a pass-through wrapper around another codec. It exists so
// a sub-field entry can carry an extra adaptation layer while still
// letting configuration reach the tag-aware codec underneath via Unwrap.
type MsgCodec struct {
	Inner FieldCodec
}

func (mc MsgCodec) UnpackField(fieldNum int, data []byte, offset int) (int, *Component, error) {
	return mc.Inner.UnpackField(fieldNum, data, offset)
}

func (mc MsgCodec) PackField(c *Component) ([]byte, error) {
	return mc.Inner.PackField(c)
}

func (mc MsgCodec) Unwrap() FieldCodec {
	return mc.Inner
}
