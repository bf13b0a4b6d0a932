package isotag

import (
	"bytes"
	"errors"
	"testing"
)

func TestFixedCodecUnpack(t *testing.T) {
	fc := FixedCodec{Length: 4, Type: FieldTypeANS}

	consumed, c, err := fc.UnpackField(3, []byte("ABCDEF"), 0)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if consumed != 4 || c.String() != "ABCD" {
		t.Fatalf("got consumed=%d value=%q", consumed, c.String())
	}

	// Offset applies before the length check.
	consumed, c, err = fc.UnpackField(3, []byte("ABCDEF"), 2)
	if err != nil {
		t.Fatalf("unpack at offset: %v", err)
	}
	if consumed != 4 || c.String() != "CDEF" {
		t.Fatalf("got consumed=%d value=%q", consumed, c.String())
	}

	// Too few remaining bytes is not a match, not an error.
	consumed, c, err = fc.UnpackField(3, []byte("ABC"), 0)
	if err != nil || consumed != 0 || c != nil {
		t.Fatalf("short buffer: consumed=%d c=%v err=%v", consumed, c, err)
	}
}

func TestFixedCodecPackLength(t *testing.T) {
	fc := FixedCodec{Length: 4, Type: FieldTypeANS}

	out, err := fc.PackField(NewLeaf(3, []byte("ABCD")))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !bytes.Equal(out, []byte("ABCD")) {
		t.Fatalf("packed %q", out)
	}

	if _, err := fc.PackField(NewLeaf(3, []byte("ABC"))); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("short value: expected ErrInvalidLength, got %v", err)
	}
	if _, err := fc.PackField(NewLeaf(3, []byte("ABCDE"))); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("long value: expected ErrInvalidLength, got %v", err)
	}
}

func TestFixedCodecPackContent(t *testing.T) {
	fc := FixedCodec{Length: 4, Type: FieldTypeN}
	if _, err := fc.PackField(NewLeaf(3, []byte("12A4"))); err == nil {
		t.Fatal("expected content error for non-numeric value")
	}
	if _, err := fc.PackField(NewLeaf(3, []byte("1234"))); err != nil {
		t.Fatalf("pack digits: %v", err)
	}
}

func TestLLVarCodecUnpack(t *testing.T) {
	lc := LLVarCodec{MaxLength: 10, Type: FieldTypeANS}

	consumed, c, err := lc.UnpackField(5, []byte("05HELLO!"), 0)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if consumed != 7 || c.String() != "HELLO" {
		t.Fatalf("got consumed=%d value=%q", consumed, c.String())
	}

	// A non-digit prefix is not this codec's data.
	consumed, _, err = lc.UnpackField(5, []byte("XXHELLO"), 0)
	if err != nil || consumed != 0 {
		t.Fatalf("non-digit prefix: consumed=%d err=%v", consumed, err)
	}

	// A declared length over the maximum is not a match either.
	consumed, _, err = lc.UnpackField(5, []byte("99HELLO"), 0)
	if err != nil || consumed != 0 {
		t.Fatalf("over maximum: consumed=%d err=%v", consumed, err)
	}

	// A valid prefix with a truncated value is malformed data.
	_, _, err = lc.UnpackField(5, []byte("08HELLO"), 0)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("truncated value: expected ErrInsufficientData, got %v", err)
	}
}

func TestLLVarCodecPack(t *testing.T) {
	lc := LLVarCodec{MaxLength: 10, Type: FieldTypeANS}

	out, err := lc.PackField(NewLeaf(5, []byte("HELLO")))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if string(out) != "05HELLO" {
		t.Fatalf("packed %q", out)
	}

	out, err = lc.PackField(NewLeaf(5, nil))
	if err != nil {
		t.Fatalf("pack empty: %v", err)
	}
	if string(out) != "00" {
		t.Fatalf("packed empty %q", out)
	}

	long := bytes.Repeat([]byte("x"), 11)
	if _, err := lc.PackField(NewLeaf(5, long)); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("over maximum: expected ErrInvalidLength, got %v", err)
	}
}

func TestLLLVarCodecRoundTrip(t *testing.T) {
	lc := LLLVarCodec{MaxLength: 999, Type: FieldTypeB}
	value := bytes.Repeat([]byte{0x5A}, 120)

	out, err := lc.PackField(NewLeaf(9, value))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if string(out[:3]) != "120" {
		t.Fatalf("length prefix %q", out[:3])
	}

	consumed, c, err := lc.UnpackField(9, out, 0)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if consumed != len(out) || !bytes.Equal(c.Value(), value) {
		t.Fatalf("round trip: consumed=%d", consumed)
	}
}

func TestTagCodecRequiresMapper(t *testing.T) {
	tc := NewTagCodec(2, 2, FixedCodec{Length: 4, Type: FieldTypeB})

	if _, _, err := tc.UnpackField(2, []byte("01ABCD"), 0); !errors.Is(err, ErrUnknownMapper) {
		t.Fatalf("unpack without mapper: %v", err)
	}
	if _, err := tc.PackField(NewLeaf(2, []byte("ABCD"))); !errors.Is(err, ErrUnknownMapper) {
		t.Fatalf("pack without mapper: %v", err)
	}
}

func TestTagCodecForeignTagNotAMatch(t *testing.T) {
	tc := NewTagCodec(2, 2, FixedCodec{Length: 4, Type: FieldTypeB})
	tc.setTagMapper(DecimalTagMapper{Width: 2})

	// Tag 07 maps fine but belongs to another sub-field.
	consumed, c, err := tc.UnpackField(2, []byte("07ABCD"), 0)
	if err != nil || consumed != 0 || c != nil {
		t.Fatalf("foreign tag: consumed=%d c=%v err=%v", consumed, c, err)
	}

	consumed, c, err = tc.UnpackField(2, []byte("02ABCD"), 0)
	if err != nil {
		t.Fatalf("own tag: %v", err)
	}
	if consumed != 6 || c.String() != "ABCD" {
		t.Fatalf("own tag: consumed=%d value=%q", consumed, c.String())
	}
}

func TestWriteIntToASCII(t *testing.T) {
	buf := make([]byte, 3)
	writeIntToASCII(buf, 7, 3)
	if string(buf) != "007" {
		t.Fatalf("got %q", buf)
	}
	writeIntToASCII(buf, 120, 3)
	if string(buf) != "120" {
		t.Fatalf("got %q", buf)
	}
}
