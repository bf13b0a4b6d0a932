package isotag

// DefaultICCFields is a ready-made descriptor for a chip-card data
// element group packed as tagged sub-fields with 2-digit decimal tags.
var DefaultICCFields = map[int]SubFieldConfig{
	1: {Type: FieldTypeN, Length: LengthFixed, MaxLength: 6, Tagged: true},    // Application cryptogram amount
	2: {Type: FieldTypeB, Length: LengthLLVAR, MaxLength: 16, Tagged: true},   // Application cryptogram
	3: {Type: FieldTypeN, Length: LengthFixed, MaxLength: 4, Tagged: true},    // Application transaction counter
	4: {Type: FieldTypeB, Length: LengthLLVAR, MaxLength: 8, Tagged: true},    // Terminal verification results
	5: {Type: FieldTypeN, Length: LengthFixed, MaxLength: 2, Tagged: true},    // Cryptogram information data
	6: {Type: FieldTypeANS, Length: LengthLLLVAR, MaxLength: 64, Tagged: true}, // Issuer application data
}

// DefaultICCConfig returns a descriptor for the chip data group carried
// in field 55, using the decimal tag mapper and strict leniency.
func DefaultICCConfig() *TagSetConfig {
	return &TagSetConfig{
		FieldID:    55,
		FirstField: 1,
		TagLength:  DefaultTagLength,
		Mapper:     "decimal",
		Fields:     DefaultICCFields,
	}
}
