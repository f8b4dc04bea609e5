package parse

import (
	"strconv"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// parseTypeExpr parses one type expression (§4.5 rule 4, §6.1 table): a
// primitive/defined name string, the `[T]`/`[T,N]` array shorthand, or one
// of the `{vec:}`/`{array:}`/`{option:}`/`{defined:}` object forms, with or
// without an explicit `kind` tag.
func parseTypeExpr(v *idl.Value) (*idl.TypeFlat, error) {
	if v == nil || v.IsNull() {
		return nil, idlerr.New(idlerr.KindParseFailure, "missing type expression")
	}
	if s, ok := v.AsString(); ok {
		return typeFromName(s), nil
	}
	if n, ok := v.AsNumber(); ok {
		return idl.ConstLen(n.Int), nil
	}
	if arr, ok := v.AsArray(); ok {
		switch len(arr) {
		case 1:
			item, err := parseTypeExpr(arr[0])
			if err != nil {
				return nil, idlerr.Crumb(err, "0")
			}
			return idl.Vec(item), nil
		case 2:
			item, err := parseTypeExpr(arr[0])
			if err != nil {
				return nil, idlerr.Crumb(err, "0")
			}
			length, err := parseTypeExpr(arr[1])
			if err != nil {
				return nil, idlerr.Crumb(err, "1")
			}
			return idl.Array(item, length), nil
		default:
			return nil, idlerr.New(idlerr.KindParseFailure, "array type shorthand takes 1 or 2 elements")
		}
	}
	if _, ok := v.AsObject(); !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "unsupported type expression")
	}

	if kindV, ok := v.ObjectGet("kind"); ok {
		kind, _ := kindV.AsString()
		switch kind {
		case "primitive":
			return typeFromName(getString(v, "name")), nil
		case "defined":
			return parseDefined(v)
		case "generic":
			return idl.Generic(getString(v, "name")), nil
		case "vec":
			return parseVecShape(v)
		case "option":
			return parseOptionShape(v)
		case "array":
			return parseArrayShape(v)
		case "string":
			return parseStringShape(v)
		case "padded":
			return parsePaddedShape(v)
		case "struct", "enum":
			return structOrEnumFromBody(v)
		}
	}

	if _, ok := v.ObjectGet("vec"); ok {
		return parseVecShape(v)
	}
	if _, ok := v.ObjectGet("option"); ok {
		return parseOptionShape(v)
	}
	if _, ok := v.ObjectGet("array"); ok {
		return parseArrayShape(v)
	}
	if _, ok := v.ObjectGet("defined"); ok {
		return parseDefined(v)
	}
	if _, ok := v.ObjectGet("padded"); ok {
		return parsePaddedShape(v)
	}
	if _, ok := v.ObjectGet("generic"); ok {
		return idl.Generic(getString(v, "generic")), nil
	}
	if _, ok := v.ObjectGet("fields"); ok {
		return structOrEnumFromBody(v)
	}
	if _, ok := v.ObjectGet("variants"); ok {
		return structOrEnumFromBody(v)
	}
	return nil, idlerr.New(idlerr.KindParseFailure, "unrecognized type expression shape")
}

// typeFromName resolves a bare name string to a primitive (accepting both
// spellings, §4.5 rule 3), the dedicated string type, or else a Defined
// reference.
func typeFromName(name string) *idl.TypeFlat {
	if name == "string" {
		return idl.StringOf(idl.DefaultPrefix)
	}
	if p, ok := idl.ParsePrimitive(name); ok {
		return idl.Prim(p)
	}
	return idl.Defined(name)
}

func parseVecShape(v *idl.Value) (*idl.TypeFlat, error) {
	inner, ok := v.ObjectGet("vec")
	if !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "missing vec element type")
	}
	item, err := parseTypeExpr(inner)
	if err != nil {
		return nil, idlerr.Crumb(err, "vec")
	}
	t := idl.Vec(item)
	if prefix, ok := parsePrefix(v); ok {
		t.VecPrefix = prefix
	}
	return t, nil
}

func parseOptionShape(v *idl.Value) (*idl.TypeFlat, error) {
	inner, ok := v.ObjectGet("option")
	if !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "missing option content type")
	}
	item, err := parseTypeExpr(inner)
	if err != nil {
		return nil, idlerr.Crumb(err, "option")
	}
	t := idl.Option(item)
	if prefix, ok := parsePrefix(v); ok {
		t.OptionPrefix = prefix
	}
	return t, nil
}

func parseArrayShape(v *idl.Value) (*idl.TypeFlat, error) {
	inner, ok := v.ObjectGet("array")
	if !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "missing array [type, length]")
	}
	items, ok := inner.AsArray()
	if !ok || len(items) != 2 {
		return nil, idlerr.New(idlerr.KindParseFailure, "array expects a 2-element [type, length] tuple").WithCrumb("array")
	}
	item, err := parseTypeExpr(items[0])
	if err != nil {
		return nil, idlerr.Crumb(err, "array.0")
	}
	length, err := parseTypeExpr(items[1])
	if err != nil {
		return nil, idlerr.Crumb(err, "array.1")
	}
	return idl.Array(item, length), nil
}

func parseStringShape(v *idl.Value) (*idl.TypeFlat, error) {
	t := idl.StringOf(idl.DefaultPrefix)
	if prefix, ok := parsePrefix(v); ok {
		t.StringPrefix = prefix
	}
	return t, nil
}

func parsePaddedShape(v *idl.Value) (*idl.TypeFlat, error) {
	body, ok := v.ObjectGet("padded")
	if !ok {
		body = v
	}
	contentV, ok := body.ObjectGet("type")
	if !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "padded type missing content type").WithCrumb("padded")
	}
	content, err := parseTypeExpr(contentV)
	if err != nil {
		return nil, idlerr.Crumb(err, "padded.type")
	}
	before, _ := getOptInt(body, "before")
	minSize, _ := getOptInt(body, "min_size")
	if minSize == 0 {
		minSize, _ = getOptInt(body, "minSize")
	}
	after, _ := getOptInt(body, "after")
	return idl.Padded(before, minSize, after, content), nil
}

// parsePrefix reads an optional explicit `prefix` width override (in bytes)
// from a Vec/Option/String/Enum type expression.
func parsePrefix(v *idl.Value) (idl.Prefix, bool) {
	n, ok := getOptInt(v, "prefix")
	if !ok {
		return 0, false
	}
	switch n {
	case 1, 2, 4, 8:
		return idl.Prefix(n), true
	}
	return 0, false
}

func parseDefined(v *idl.Value) (*idl.TypeFlat, error) {
	inner, ok := v.ObjectGet("defined")
	if !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "missing defined name")
	}
	if s, ok := inner.AsString(); ok {
		return idl.Defined(s), nil
	}
	name := getString(inner, "name")
	if name == "" {
		return nil, idlerr.New(idlerr.KindParseFailure, "defined type missing name").WithCrumb("defined")
	}
	var generics []*idl.TypeFlat
	if genV, ok := inner.ObjectGet("generics"); ok {
		items, _ := genV.AsArray()
		for _, g := range items {
			gt, err := parseGenericArg(g)
			if err != nil {
				return nil, idlerr.Crumb(err, "defined.generics")
			}
			generics = append(generics, gt)
		}
	}
	return idl.Defined(name, generics...), nil
}

// parseGenericArg parses one entry of a `defined.generics` list, which may
// itself be a type expression object tagged `{kind:"type", type:T}` or a
// bare const value tagged `{kind:"const", value:N}`, in addition to the
// plain forms parseTypeExpr already accepts.
func parseGenericArg(v *idl.Value) (*idl.TypeFlat, error) {
	if kindV, ok := v.ObjectGet("kind"); ok {
		kind, _ := kindV.AsString()
		switch kind {
		case "type":
			if t, ok := v.ObjectGet("type"); ok {
				return parseTypeExpr(t)
			}
		case "const":
			if val, ok := v.ObjectGet("value"); ok {
				return parseTypeExpr(val)
			}
		}
	}
	return parseTypeExpr(v)
}

// structOrEnumFromBody builds a Struct or Enum TypeFlat from a body object
// holding `fields`/`variants` (with `kind` inferred when absent, §4.5 rule
// 2).
func structOrEnumFromBody(body *idl.Value) (*idl.TypeFlat, error) {
	kind := getString(body, "kind")
	if kind == "" {
		if _, ok := body.ObjectGet("variants"); ok {
			kind = "enum"
		} else {
			kind = "struct"
		}
	}
	switch kind {
	case "struct":
		fieldsV, _ := body.ObjectGet("fields")
		fields, err := parseFieldsBody(fieldsV)
		if err != nil {
			return nil, idlerr.Crumb(err, "fields")
		}
		return idl.StructOf(fields), nil
	case "enum":
		variantsV, ok := body.ObjectGet("variants")
		if !ok {
			return idl.EnumOf(idl.DefaultPrefix, nil), nil
		}
		variants, err := parseEnumVariants(variantsV)
		if err != nil {
			return nil, idlerr.Crumb(err, "variants")
		}
		t := idl.EnumOf(idl.DefaultPrefix, variants)
		if prefix, ok := parsePrefix(body); ok {
			t.EnumPrefix = prefix
		}
		return t, nil
	default:
		return nil, idlerr.New(idlerr.KindParseFailure, "unknown type kind "+kind)
	}
}

// parseFieldsBody parses a struct/variant body's `fields` value: absent or
// empty means FieldsNone; an array whose entries are `{name, type}` objects
// means Named; an array of bare type expressions means Unnamed (§3).
func parseFieldsBody(v *idl.Value) (idl.Fields, error) {
	if v == nil || v.IsNull() {
		return idl.Fields{Shape: idl.FieldsNone}, nil
	}
	items, ok := v.AsArray()
	if !ok {
		return idl.Fields{}, idlerr.New(idlerr.KindParseFailure, "fields must be an array")
	}
	if len(items) == 0 {
		return idl.Fields{Shape: idl.FieldsNone}, nil
	}
	if _, hasName := items[0].ObjectGet("name"); hasName {
		named := make([]idl.NamedField, 0, len(items))
		for i, it := range items {
			nf, err := parseNamedField(it)
			if err != nil {
				return idl.Fields{}, idlerr.Crumb(err, strconv.Itoa(i))
			}
			named = append(named, nf)
		}
		return idl.Fields{Shape: idl.FieldsNamed, Named: named}, nil
	}
	unnamed := make([]interface{}, 0, len(items))
	for i, it := range items {
		expr := it
		if wrapped, ok := it.ObjectGet("type"); ok {
			expr = wrapped
		}
		t, err := parseTypeExpr(expr)
		if err != nil {
			return idl.Fields{}, idlerr.Crumb(err, strconv.Itoa(i))
		}
		unnamed = append(unnamed, t)
	}
	return idl.Fields{Shape: idl.FieldsUnnamed, Unnamed: unnamed}, nil
}

func parseNamedField(v *idl.Value) (idl.NamedField, error) {
	name := getString(v, "name")
	if name == "" {
		return idl.NamedField{}, idlerr.New(idlerr.KindParseFailure, "field missing name")
	}
	typeV, ok := v.ObjectGet("type")
	if !ok {
		return idl.NamedField{}, idlerr.New(idlerr.KindParseFailure, "field missing type").WithCrumb(name)
	}
	t, err := parseTypeExpr(typeV)
	if err != nil {
		return idl.NamedField{}, idlerr.Crumb(err, name)
	}
	return idl.NamedField{Name: name, Docs: getDocs(v), Type: t}, nil
}

// parseEnumVariants parses an enum's `variants` array: a bare string is the
// fieldless shorthand (§6.1 table), otherwise `{name, docs?, code?, fields?}`.
func parseEnumVariants(v *idl.Value) ([]idl.EnumVariantFlat, error) {
	items, ok := v.AsArray()
	if !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "variants must be an array")
	}
	out := make([]idl.EnumVariantFlat, 0, len(items))
	for i, it := range items {
		if s, ok := it.AsString(); ok {
			out = append(out, idl.EnumVariantFlat{Name: s, Fields: idl.Fields{Shape: idl.FieldsNone}})
			continue
		}
		name := getString(it, "name")
		if name == "" {
			return nil, idlerr.New(idlerr.KindParseFailure, "variant missing name").WithCrumb(strconv.Itoa(i))
		}
		var fields idl.Fields
		var err error
		if fieldsV, ok := it.ObjectGet("fields"); ok {
			fields, err = parseFieldsBody(fieldsV)
		} else {
			fields = idl.Fields{Shape: idl.FieldsNone}
		}
		if err != nil {
			return nil, idlerr.Crumb(err, name)
		}
		var code *int
		if n, ok := getOptInt(it, "code"); ok {
			code = &n
		} else if n, ok := getOptInt(it, "discriminant"); ok {
			code = &n
		} else if n, ok := getOptInt(it, "index"); ok {
			code = &n
		}
		out = append(out, idl.EnumVariantFlat{Name: name, Docs: getDocs(it), Code: code, Fields: fields})
	}
	return out, nil
}

// parseInlineOrRefType handles the typedef-body shorthand of §4.5 rule 2
// applied to any entity that owns a content type (typedefs, accounts,
// events): the `type` wrapper is optional, and `kind` may be omitted and
// inferred from the presence of `fields`/`variants`.
func parseInlineOrRefType(v *idl.Value) (*idl.TypeFlat, error) {
	body := v
	if t, ok := v.ObjectGet("type"); ok {
		body = t
	}
	if s, ok := body.AsString(); ok {
		return typeFromName(s), nil
	}
	if _, ok := body.ObjectGet("fields"); ok {
		return structOrEnumFromBody(body)
	}
	if _, ok := body.ObjectGet("variants"); ok {
		return structOrEnumFromBody(body)
	}
	if kindV, ok := body.ObjectGet("kind"); ok {
		if k, _ := kindV.AsString(); k == "struct" || k == "enum" {
			return structOrEnumFromBody(body)
		}
	}
	return parseTypeExpr(body)
}

