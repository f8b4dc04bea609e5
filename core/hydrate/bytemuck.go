package hydrate

import (
	"sort"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// ApplyRepr rewrites content into a host-compatible ("bytemuck") layout per
// §4.3 and returns the rewritten tree alongside its computed (align, size).
// Only typedefs marked serialization=bytemuck call this; borsh typedefs use
// content verbatim with no alignment concerns.
func ApplyRepr(repr idl.Repr, content *idl.TypeFull) (*idl.TypeFull, *idl.Layout, error) {
	switch repr {
	case idl.ReprC:
		return applyC(content)
	case idl.ReprRust, idl.ReprUnset:
		return applyRust(content)
	case idl.ReprTransparent:
		return applyTransparent(content)
	default:
		return nil, nil, idlerr.New(idlerr.KindUnsupportedRepr, repr.String())
	}
}

// fieldLayout pairs a struct field's rewritten type with its own (align,
// size) before padding is added around it.
type fieldLayout struct {
	name  string // "" for unnamed fields, used only for re-threading Named output
	index int
	typ   *idl.TypeFull
	align int
	size  int
}

func applyC(content *idl.TypeFull) (*idl.TypeFull, *idl.Layout, error) {
	return layoutStruct(content, false)
}

func applyRust(content *idl.TypeFull) (*idl.TypeFull, *idl.Layout, error) {
	return layoutStruct(content, true)
}

func applyTransparent(content *idl.TypeFull) (*idl.TypeFull, *idl.Layout, error) {
	fields := content.StructFields
	total := len(fields.Named)
	if fields.Shape == idl.FieldsUnnamed {
		total = len(fields.Unnamed)
	}
	if content.Kind != idl.FullStruct || total != 1 {
		return nil, nil, idlerr.New(idlerr.KindUnsupportedRepr, "transparent requires exactly one field")
	}
	var only *idl.TypeFull
	if fields.Shape == idl.FieldsNamed {
		only = fields.Named[0].Type.(*idl.TypeFull)
	} else {
		only = fields.Unnamed[0].(*idl.TypeFull)
	}
	align, size, err := alignAndSize(only)
	if err != nil {
		return nil, nil, err
	}
	return content, &idl.Layout{Align: align, Size: size}, nil
}

// layoutStruct computes field offsets for a repr=rust (reorder by
// decreasing alignment) or repr=c (declaration order) struct (§4.3),
// rewriting each field's type as a Padded wrapper carrying the gap before
// that field (plus, on the field placed last, the trailing padding to the
// struct's own alignment).
func layoutStruct(content *idl.TypeFull, reorder bool) (*idl.TypeFull, *idl.Layout, error) {
	if content.Kind != idl.FullStruct {
		align, size, err := alignAndSize(content)
		if err != nil {
			return nil, nil, err
		}
		return content, &idl.Layout{Align: align, Size: size}, nil
	}

	fields := content.StructFields
	var layouts []fieldLayout
	switch fields.Shape {
	case idl.FieldsNone:
		return content, &idl.Layout{Align: 1, Size: 0}, nil
	case idl.FieldsNamed:
		for i, nf := range fields.Named {
			align, size, err := alignAndSize(nf.Type.(*idl.TypeFull))
			if err != nil {
				return nil, nil, idlerr.Crumb(err, nf.Name)
			}
			layouts = append(layouts, fieldLayout{name: nf.Name, index: i, typ: nf.Type.(*idl.TypeFull), align: align, size: size})
		}
	case idl.FieldsUnnamed:
		for i, u := range fields.Unnamed {
			align, size, err := alignAndSize(u.(*idl.TypeFull))
			if err != nil {
				return nil, nil, err
			}
			layouts = append(layouts, fieldLayout{index: i, typ: u.(*idl.TypeFull), align: align, size: size})
		}
	}

	order := make([]int, len(layouts))
	for i := range order {
		order[i] = i
	}
	if reorder {
		sort.SliceStable(order, func(a, b int) bool {
			return layouts[order[a]].align > layouts[order[b]].align
		})
	}

	structAlign := 1
	for _, fl := range layouts {
		if fl.align > structAlign {
			structAlign = fl.align
		}
	}

	offset := 0
	rewritten := make([]fieldLayout, len(layouts))
	for _, idx := range order {
		fl := layouts[idx]
		before := padTo(offset, fl.align) - offset
		offset += before + fl.size
		rewritten[idx] = fieldLayout{name: fl.name, index: fl.index, typ: fl.typ, align: fl.align, size: fl.size}
		rewritten[idx].typ = idl.FullPaddedOf(before, fl.size, 0, fl.typ)
	}
	totalBeforeTrailing := offset
	trailing := padTo(totalBeforeTrailing, structAlign) - totalBeforeTrailing
	if trailing > 0 && len(rewritten) > 0 {
		last := order[len(order)-1]
		p := rewritten[last].typ
		rewritten[last].typ = idl.FullPaddedOf(p.PaddedBefore, p.PaddedMinSize, trailing, p.PaddedContent)
	}

	outFields := idl.Fields{Shape: fields.Shape}
	if fields.Shape == idl.FieldsNamed {
		named := make([]idl.NamedField, len(rewritten))
		for _, fl := range rewritten {
			named[fl.index] = idl.NamedField{Name: fl.name, Type: fl.typ}
		}
		outFields.Named = named
	} else if fields.Shape == idl.FieldsUnnamed {
		unnamed := make([]interface{}, len(rewritten))
		for _, fl := range rewritten {
			unnamed[fl.index] = fl.typ
		}
		outFields.Unnamed = unnamed
	}

	total := totalBeforeTrailing + trailing
	return idl.FullStructOf(outFields), &idl.Layout{Align: structAlign, Size: total}, nil
}

func padTo(offset, align int) int {
	if align <= 1 {
		return offset
	}
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}

// alignAndSize computes a fixed-size type's (alignment, size) per §4.3.
// Variable-size content (Vec, String, Option, or an enum
// with any field-bearing variant) cannot be laid out as bytemuck and is
// rejected - §9's open question (ii) recommends exactly this for
// field-bearing enums, and the same reasoning extends to the other
// non-fixed-size wrappers.
func alignAndSize(t *idl.TypeFull) (int, int, error) {
	switch t.Kind {
	case idl.FullPrimitive:
		return t.Primitive.Alignment(), t.Primitive.Size(), nil
	case idl.FullArray:
		align, size, err := alignAndSize(t.ArrayItems)
		if err != nil {
			return 0, 0, err
		}
		if t.ArrayItems.Kind == idl.FullPrimitive && t.ArrayItems.Primitive == idl.PrimitiveU8 {
			align = 1
		}
		return align, size * t.ArrayLength, nil
	case idl.FullTypedef:
		if t.TypedefLayout != nil {
			return t.TypedefLayout.Align, t.TypedefLayout.Size, nil
		}
		return alignAndSize(t.TypedefContent)
	case idl.FullStruct:
		_, layout, err := layoutStruct(t, true)
		if err != nil {
			return 0, 0, err
		}
		return layout.Align, layout.Size, nil
	case idl.FullEnum:
		for _, v := range t.EnumVariants {
			if !v.Fields.IsEmpty() {
				return 0, 0, idlerr.New(idlerr.KindUnsupportedRepr, "bytemuck enum with fields")
			}
		}
		return int(t.EnumPrefix), int(t.EnumPrefix), nil
	default:
		return 0, 0, idlerr.New(idlerr.KindUnsupportedRepr, "variable-size content in bytemuck layout")
	}
}
