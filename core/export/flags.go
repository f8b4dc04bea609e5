// Package export implements the IDL document exporter (§4.6): a pure
// function of (Program, FormatFlags) producing a JSON value tree in any of
// the three dialects parse accepts. It holds no state of its own and never
// touches the parser package, keeping the two sides of the dialect
// boundary decoupled (§9, "Dialect plurality").
package export

import "strings"

// Flags is the exporter's format-flags record (§6.4): every decision is
// independent, so a caller can build an ad-hoc combination beyond the three
// named presets.
type Flags struct {
	UseObjectForUnorderedNamedArray       bool
	UseRootAlsoAsMetadataObject           bool
	UseCamelCaseInstructionNames          bool
	UseCamelCaseInstructionAccountNames   bool
	UseCamelCaseInstructionAccountFlags   bool
	UseCamelCaseTypePrimitiveNames        bool
	UseCamelCaseTypeFieldsNames           bool
	CanSkipDefinedNameObjectWrap          bool
	CanSkipUnnamedFieldTypeObjectWrap     bool
	CanSkipTypedefTypeObjectWrap          bool
	CanSkipTypedefGenericKindKey          bool
	CanSkipTypeKindKey                    bool
	CanSkipInstructionAccountPdaKindKey   bool
	CanSkipInstructionAccountPdaTypeKey   bool
	CanShortcutTypeVecNotation            bool
	CanShortcutTypeArrayNotation          bool
	CanShortcutEnumVariantToStringIfNoFields bool
	CanShortcutDefinedNameToStringIfNoGeneric bool
	CanShortcutErrorToNumberIfNoMsg        bool
}

// Human is the preset favoring the ordered-object, shorthand-heavy
// "human" dialect: named collections as objects, every shortcut notation
// enabled except the error-to-number one, snake_case flag keys kept as-is
// (no forced re-casing).
func Human() Flags {
	return Flags{
		UseObjectForUnorderedNamedArray:           true,
		UseRootAlsoAsMetadataObject:               true,
		CanSkipDefinedNameObjectWrap:               true,
		CanSkipUnnamedFieldTypeObjectWrap:          true,
		CanSkipTypedefTypeObjectWrap:               true,
		CanSkipTypedefGenericKindKey:               true,
		CanSkipTypeKindKey:                         true,
		CanSkipInstructionAccountPdaKindKey:        true,
		CanSkipInstructionAccountPdaTypeKey:        true,
		CanShortcutTypeVecNotation:                 true,
		CanShortcutTypeArrayNotation:               true,
		CanShortcutEnumVariantToStringIfNoFields:   true,
		CanShortcutDefinedNameToStringIfNoGeneric:  true,
		CanShortcutErrorToNumberIfNoMsg:            false,
	}
}

// Anchor26 is the preset matching the older Anchor CLI's array-of-entries,
// explicitly wrapped, snake_case-flag dialect.
func Anchor26() Flags {
	return Flags{
		UseObjectForUnorderedNamedArray: false,
		UseRootAlsoAsMetadataObject:     false,
	}
}

// Anchor30 is the preset matching the modern Anchor CLI: array-of-entries
// collections, `type.defined.name` object wrapping, camelCase instruction/
// account names and flags.
func Anchor30() Flags {
	return Flags{
		UseObjectForUnorderedNamedArray:     false,
		UseRootAlsoAsMetadataObject:         false,
		UseCamelCaseInstructionNames:        true,
		UseCamelCaseInstructionAccountNames: true,
		UseCamelCaseInstructionAccountFlags: true,
		UseCamelCaseTypePrimitiveNames:      true,
		CanSkipInstructionAccountPdaKindKey: true,
	}
}

// snakeToCamel converts "my_account" to "myAccount". Names already in
// camelCase (no underscore) pass through unchanged.
func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// camelToSnake converts "myAccount" to "my_account". Names already
// snake_case (no uppercase run) pass through unchanged.
func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
