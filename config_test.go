package isotag

import (
	"errors"
	"testing"
)

func TestLoadTagSetFromJSON(t *testing.T) {
	descriptor := []byte(`{
		"id": 48,
		"tag_length": 2,
		"mapper": "decimal",
		"fields": {
			"2": {"type": "N", "length": "FIXED", "max_length": 6, "tagged": true},
			"5": {"type": "ANS", "length": "LLVAR", "max_length": 20, "tagged": true},
			"7": {"type": 0, "length": 0, "max_length": 3, "tagged": true}
		}
	}`)

	p, err := LoadTagSetFromJSON(descriptor)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	m := NewComposite(48)
	m.Set(NewLeaf(2, []byte("123456")))
	m.Set(NewLeaf(5, []byte("HELLO")))
	m.Set(NewLeaf(7, []byte("ABC")))

	packed, err := p.Pack(m)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	want := "02123456" + "0505HELLO" + "07ABC"
	if string(packed) != want {
		t.Fatalf("packed %q, want %q", packed, want)
	}
}

func TestLoadTagSetFromJSONNested(t *testing.T) {
	descriptor := []byte(`{
		"id": 48,
		"tag_length": 2,
		"mapper": "static",
		"fields": {
			"2": {"length": "LLVAR", "nested": {
				"id": 2,
				"tag_length": 2,
				"fields": {
					"1": {"type": "B", "length": "FIXED", "max_length": 2, "tag": "Q1"}
				}
			}}
		}
	}`)

	p, err := LoadTagSetFromJSON(descriptor)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	group := NewComposite(2)
	group.Set(NewLeaf(1, []byte("AB")))
	m := NewComposite(48)
	m.Set(group)

	packed, err := p.Pack(m)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if string(packed) != "04Q1AB" {
		t.Fatalf("packed %q, want %q", packed, "04Q1AB")
	}
}

func TestLoadTagSetFromJSONInvalid(t *testing.T) {
	if _, err := LoadTagSetFromJSON([]byte(`{"id": 48,`)); err == nil {
		t.Fatal("expected parse error")
	}

	_, err := LoadTagSetFromJSON([]byte(`{
		"id": 48,
		"fields": {"999": {"type": "B", "length": "FIXED", "max_length": 2}}
	}`))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for field 999, got %v", err)
	}
}

func TestLoadTagSetFromTOML(t *testing.T) {
	descriptor := []byte(`
id = 48
tag_length = 2
mapper = "static"
pack_lenient = true

[fields.2]
type = "B"
length = "FIXED"
max_length = 4
tag = "A1"

[fields.5]
type = "ANS"
length = "LLVAR"
max_length = 20
tag = "B2"
`)
	p, err := LoadTagSetFromTOML(descriptor)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !p.IsPackLenient() {
		t.Fatal("pack leniency lost in conversion")
	}

	m := NewComposite(48)
	m.Set(NewLeaf(2, []byte("WXYZ")))
	m.Set(NewLeaf(5, []byte("HELLO")))

	packed, err := p.Pack(m)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	want := "A1WXYZ" + "B2" + "05HELLO"
	if string(packed) != want {
		t.Fatalf("packed %q, want %q", packed, want)
	}
}

func TestLoadTagSetFromTOMLInvalidFieldNumber(t *testing.T) {
	descriptor := []byte(`
id = 48

[fields.zero]
type = "B"
length = "FIXED"
max_length = 2
`)
	_, err := LoadTagSetFromTOML(descriptor)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestDefaultICCConfigCompiles(t *testing.T) {
	p, err := NewTagSetPackager(DefaultICCConfig())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if p.FieldNum() != 55 {
		t.Fatalf("field = %d, want 55", p.FieldNum())
	}

	m := NewComposite(55)
	m.Set(NewLeaf(1, []byte("000123")))
	m.Set(NewLeaf(3, []byte("0042")))

	packed, err := p.Pack(m)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	want := "01000123" + "030042"
	if string(packed) != want {
		t.Fatalf("packed %q, want %q", packed, want)
	}

	out := NewComposite(55)
	consumed, err := p.Unpack(out, packed)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if consumed != len(packed) || len(out.Children()) != 2 {
		t.Fatalf("consumed %d, children %d", consumed, len(out.Children()))
	}
}
