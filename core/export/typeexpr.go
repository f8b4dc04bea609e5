package export

import "github.com/solana-toolbox/toolbox-idl-go/core/idl"

func primitiveName(p idl.Primitive, flags Flags) string {
	name := p.String()
	if flags.UseCamelCaseTypePrimitiveNames && name == "pubkey" {
		return "publicKey"
	}
	return name
}

// typeExpr renders a flat type tree back to its document form, honoring
// the shorthand/wrapper flags (§4.5 rule 4, §6.1 table).
func typeExpr(t *idl.TypeFlat, flags Flags) *idl.Value {
	switch t.Kind {
	case idl.FlatPrimitive:
		name := primitiveName(t.Primitive, flags)
		if flags.CanSkipTypeKindKey {
			return idl.Str(name)
		}
		return idl.Obj(idl.KV{Key: "kind", Val: idl.Str("primitive")}, idl.KV{Key: "name", Val: idl.Str(name)})

	case idl.FlatString:
		if flags.CanSkipTypeKindKey && t.StringPrefix == idl.DefaultPrefix {
			return idl.Str("string")
		}
		pairs := []idl.KV{{Key: "kind", Val: idl.Str("string")}}
		if t.StringPrefix != idl.DefaultPrefix {
			pairs = append(pairs, idl.KV{Key: "prefix", Val: idl.Int(int64(t.StringPrefix))})
		}
		return idl.Obj(pairs...)

	case idl.FlatGeneric:
		return idl.Obj(idl.KV{Key: "kind", Val: idl.Str("generic")}, idl.KV{Key: "name", Val: idl.Str(t.GenericSymbol)})

	case idl.FlatDefined:
		if flags.CanShortcutDefinedNameToStringIfNoGeneric && len(t.DefinedGenerics) == 0 {
			return idl.Str(t.DefinedName)
		}
		var definedVal *idl.Value
		if len(t.DefinedGenerics) == 0 && flags.CanSkipDefinedNameObjectWrap {
			definedVal = idl.Str(t.DefinedName)
		} else {
			generics := make([]*idl.Value, len(t.DefinedGenerics))
			for i, g := range t.DefinedGenerics {
				generics[i] = typeExpr(g, flags)
			}
			definedVal = idl.Obj(idl.KV{Key: "name", Val: idl.Str(t.DefinedName)}, idl.KV{Key: "generics", Val: idl.Arr(generics...)})
		}
		pairs := []idl.KV{}
		if !flags.CanSkipTypeKindKey {
			pairs = append(pairs, idl.KV{Key: "kind", Val: idl.Str("defined")})
		}
		pairs = append(pairs, idl.KV{Key: "defined", Val: definedVal})
		return idl.Obj(pairs...)

	case idl.FlatOption:
		inner := typeExpr(t.OptionContent, flags)
		pairs := []idl.KV{}
		if !flags.CanSkipTypeKindKey {
			pairs = append(pairs, idl.KV{Key: "kind", Val: idl.Str("option")})
		}
		pairs = append(pairs, idl.KV{Key: "option", Val: inner})
		if t.OptionPrefix != idl.DefaultPrefix {
			pairs = append(pairs, idl.KV{Key: "prefix", Val: idl.Int(int64(t.OptionPrefix))})
		}
		return idl.Obj(pairs...)

	case idl.FlatVec:
		inner := typeExpr(t.VecItems, flags)
		if flags.CanShortcutTypeVecNotation && t.VecPrefix == idl.DefaultPrefix {
			return idl.Arr(inner)
		}
		pairs := []idl.KV{}
		if !flags.CanSkipTypeKindKey {
			pairs = append(pairs, idl.KV{Key: "kind", Val: idl.Str("vec")})
		}
		pairs = append(pairs, idl.KV{Key: "vec", Val: inner})
		if t.VecPrefix != idl.DefaultPrefix {
			pairs = append(pairs, idl.KV{Key: "prefix", Val: idl.Int(int64(t.VecPrefix))})
		}
		return idl.Obj(pairs...)

	case idl.FlatArray:
		item := typeExpr(t.ArrayItems, flags)
		length := typeExpr(t.ArrayLength, flags)
		if flags.CanShortcutTypeArrayNotation {
			return idl.Arr(item, length)
		}
		pairs := []idl.KV{}
		if !flags.CanSkipTypeKindKey {
			pairs = append(pairs, idl.KV{Key: "kind", Val: idl.Str("array")})
		}
		pairs = append(pairs, idl.KV{Key: "array", Val: idl.Arr(item, length)})
		return idl.Obj(pairs...)

	case idl.FlatConst:
		return idl.Int(t.ConstLiteral)

	case idl.FlatPadded:
		inner := typeExpr(t.PaddedContent, flags)
		body := idl.Obj(
			idl.KV{Key: "before", Val: idl.Int(int64(t.PaddedBefore))},
			idl.KV{Key: "min_size", Val: idl.Int(int64(t.PaddedMinSize))},
			idl.KV{Key: "after", Val: idl.Int(int64(t.PaddedAfter))},
			idl.KV{Key: "type", Val: inner},
		)
		pairs := []idl.KV{}
		if !flags.CanSkipTypeKindKey {
			pairs = append(pairs, idl.KV{Key: "kind", Val: idl.Str("padded")})
		}
		pairs = append(pairs, idl.KV{Key: "padded", Val: body})
		return idl.Obj(pairs...)

	case idl.FlatStruct, idl.FlatEnum:
		return structOrEnumBody(t, flags)

	default:
		return idl.Null()
	}
}

func structOrEnumBody(t *idl.TypeFlat, flags Flags) *idl.Value {
	var pairs []idl.KV
	switch t.Kind {
	case idl.FlatStruct:
		if !flags.CanSkipTypeKindKey {
			pairs = append(pairs, idl.KV{Key: "kind", Val: idl.Str("struct")})
		}
		if fv := fieldsValue(t.StructFields, flags); fv != nil {
			pairs = append(pairs, idl.KV{Key: "fields", Val: fv})
		}
	case idl.FlatEnum:
		if !flags.CanSkipTypeKindKey {
			pairs = append(pairs, idl.KV{Key: "kind", Val: idl.Str("enum")})
		}
		pairs = append(pairs, idl.KV{Key: "variants", Val: enumVariantsValue(t.EnumVariants, flags)})
		if t.EnumPrefix != idl.DefaultPrefix {
			pairs = append(pairs, idl.KV{Key: "prefix", Val: idl.Int(int64(t.EnumPrefix))})
		}
	}
	return idl.Obj(pairs...)
}

func fieldName(name string, flags Flags) string {
	if flags.UseCamelCaseTypeFieldsNames {
		return snakeToCamel(name)
	}
	return name
}

// fieldsValue renders a Fields value back to its `fields` array form, or
// nil for FieldsNone (callers omit the key entirely in that case).
func fieldsValue(f idl.Fields, flags Flags) *idl.Value {
	switch f.Shape {
	case idl.FieldsNone:
		return nil
	case idl.FieldsNamed:
		items := make([]*idl.Value, len(f.Named))
		for i, nf := range f.Named {
			pairs := []idl.KV{{Key: "name", Val: idl.Str(fieldName(nf.Name, flags))}}
			if len(nf.Docs) > 0 {
				pairs = append(pairs, idl.KV{Key: "docs", Val: docsValue(nf.Docs)})
			}
			pairs = append(pairs, idl.KV{Key: "type", Val: typeExpr(nf.Type.(*idl.TypeFlat), flags)})
			items[i] = idl.Obj(pairs...)
		}
		return idl.Arr(items...)
	case idl.FieldsUnnamed:
		items := make([]*idl.Value, len(f.Unnamed))
		for i, t := range f.Unnamed {
			expr := typeExpr(t.(*idl.TypeFlat), flags)
			if !flags.CanSkipUnnamedFieldTypeObjectWrap {
				expr = idl.Obj(idl.KV{Key: "type", Val: expr})
			}
			items[i] = expr
		}
		return idl.Arr(items...)
	default:
		return nil
	}
}

func docsValue(docs []string) *idl.Value {
	items := make([]*idl.Value, len(docs))
	for i, d := range docs {
		items[i] = idl.Str(d)
	}
	return idl.Arr(items...)
}

func enumVariantsValue(variants []idl.EnumVariantFlat, flags Flags) *idl.Value {
	items := make([]*idl.Value, len(variants))
	for i, v := range variants {
		if flags.CanShortcutEnumVariantToStringIfNoFields && v.Fields.IsEmpty() && v.Code == nil {
			items[i] = idl.Str(v.Name)
			continue
		}
		pairs := []idl.KV{{Key: "name", Val: idl.Str(v.Name)}}
		if len(v.Docs) > 0 {
			pairs = append(pairs, idl.KV{Key: "docs", Val: docsValue(v.Docs)})
		}
		if v.Code != nil {
			pairs = append(pairs, idl.KV{Key: "code", Val: idl.Int(int64(*v.Code))})
		}
		if fv := fieldsValue(v.Fields, flags); fv != nil {
			pairs = append(pairs, idl.KV{Key: "fields", Val: fv})
		}
		items[i] = idl.Obj(pairs...)
	}
	return idl.Arr(items...)
}

// simpleTypeFullExpr is typeExpr's counterpart for a PDA seed's
// optional `type` annotation, which is a TypeFull (seeds bypass hydration,
// parse/entities.go parseSimpleTypeFull).
func simpleTypeFullExpr(t *idl.TypeFull, flags Flags) *idl.Value {
	switch t.Kind {
	case idl.FullPrimitive:
		name := primitiveName(t.Primitive, flags)
		if flags.CanSkipTypeKindKey {
			return idl.Str(name)
		}
		return idl.Obj(idl.KV{Key: "kind", Val: idl.Str("primitive")}, idl.KV{Key: "name", Val: idl.Str(name)})
	case idl.FullString:
		if t.StringPrefix == idl.DefaultPrefix {
			return idl.Str("string")
		}
		return idl.Obj(idl.KV{Key: "kind", Val: idl.Str("string")}, idl.KV{Key: "prefix", Val: idl.Int(int64(t.StringPrefix))})
	case idl.FullVec:
		inner := simpleTypeFullExpr(t.VecItems, flags)
		if flags.CanShortcutTypeVecNotation && t.VecPrefix == idl.DefaultPrefix {
			return idl.Arr(inner)
		}
		pairs := []idl.KV{{Key: "vec", Val: inner}}
		if t.VecPrefix != idl.DefaultPrefix {
			pairs = append(pairs, idl.KV{Key: "prefix", Val: idl.Int(int64(t.VecPrefix))})
		}
		return idl.Obj(pairs...)
	case idl.FullOption:
		inner := simpleTypeFullExpr(t.OptionContent, flags)
		pairs := []idl.KV{{Key: "option", Val: inner}}
		if t.OptionPrefix != idl.DefaultPrefix {
			pairs = append(pairs, idl.KV{Key: "prefix", Val: idl.Int(int64(t.OptionPrefix))})
		}
		return idl.Obj(pairs...)
	case idl.FullArray:
		item := simpleTypeFullExpr(t.ArrayItems, flags)
		length := idl.Int(int64(t.ArrayLength))
		if flags.CanShortcutTypeArrayNotation {
			return idl.Arr(item, length)
		}
		return idl.Obj(idl.KV{Key: "array", Val: idl.Arr(item, length)})
	default:
		return idl.Null()
	}
}
