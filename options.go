package isotag

// PackagerOption represents a functional option applied after a
// TagSetPackager is compiled. Options cascade into nested groups.
type PackagerOption func(*TagSetPackager)

// WithDiagnostics routes pack/unpack events to the given sink.
func WithDiagnostics(sink DiagnosticSink) PackagerOption {
	return func(p *TagSetPackager) {
		p.setDiagnostics(sink)
	}
}

// WithTagMapper replaces the mapper resolved from the descriptor.
func WithTagMapper(mapper TagMapper) PackagerOption {
	return func(p *TagSetPackager) {
		p.setTagMapper(mapper)
	}
}

// WithPackLenient tolerates missing field-to-tag mappings when packing:
// the affected sub-field contributes zero bytes instead of failing.
func WithPackLenient(lenient bool) PackagerOption {
	return func(p *TagSetPackager) {
		p.setPackLenient(lenient)
	}
}

// WithUnpackLenient tolerates unknown tags when unpacking: the scan
// treats them as not recognized instead of failing.
func WithUnpackLenient(lenient bool) PackagerOption {
	return func(p *TagSetPackager) {
		p.setUnpackLenient(lenient)
	}
}
