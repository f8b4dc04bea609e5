// Package hydrate implements C4: substituting Defined references and
// generics into typedef bodies to turn a flat (syntactic) type tree into a
// full (resolved) one, and applying the §4.3 "bytemuck" repr overlay where
// a typedef asks for it.
package hydrate

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
	"github.com/solana-toolbox/toolbox-idl-go/core/invariant"
)

// Binding is a generic parameter's substitution: either a full type (an
// ordinary type parameter) or a reduced integer (a const-generic array
// length). Exactly one of Type/IsConst describes the binding.
type Binding struct {
	Type    *idl.TypeFull
	IsConst bool
	Const   int64
}

// Hydrator resolves Defined/Generic references against a program's
// typedef map. Besides the logger, a Hydrator holds only its cycle-detection
// stack, which is empty again whenever a Hydrate call returns, so it can be
// reused across many Hydrate calls made one at a time (not concurrently).
type Hydrator struct {
	Typedefs map[string]*idl.Typedef
	Log      *zap.Logger

	stack []frame
}

type frame struct {
	name string
	sig  string
}

// New returns a Hydrator over the given typedef map. log may be nil, in
// which case a no-op logger is used.
func New(typedefs map[string]*idl.Typedef, log *zap.Logger) *Hydrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hydrator{Typedefs: typedefs, Log: log}
}

// Hydrate runs the algorithm of §4.2 over flat using the given ambient
// generics map (empty at the top level; populated while descending into a
// Defined's body).
func (h *Hydrator) Hydrate(flat *idl.TypeFlat, generics map[string]Binding) (*idl.TypeFull, error) {
	if flat == nil {
		return nil, idlerr.New(idlerr.KindParseFailure, "nil flat type")
	}
	switch flat.Kind {
	case idl.FlatPrimitive:
		return idl.FullPrim(flat.Primitive), nil

	case idl.FlatGeneric:
		b, ok := generics[flat.GenericSymbol]
		if !ok {
			return nil, idlerr.New(idlerr.KindUnresolvedGeneric, flat.GenericSymbol)
		}
		if b.IsConst {
			return nil, idlerr.New(idlerr.KindUnresolvedGeneric,
				fmt.Sprintf("%s is a const generic, not a type", flat.GenericSymbol))
		}
		return b.Type, nil

	case idl.FlatConst:
		return nil, idlerr.New(idlerr.KindParseFailure, "Const used outside array length or generic position")

	case idl.FlatDefined:
		return h.hydrateDefined(flat, generics)

	case idl.FlatOption:
		content, err := h.Hydrate(flat.OptionContent, generics)
		if err != nil {
			return nil, idlerr.Crumb(err, "option")
		}
		return idl.FullOptionOf(flat.OptionPrefix, content), nil

	case idl.FlatVec:
		items, err := h.Hydrate(flat.VecItems, generics)
		if err != nil {
			return nil, idlerr.Crumb(err, "vec")
		}
		return idl.FullVecOf(flat.VecPrefix, items), nil

	case idl.FlatString:
		return idl.FullStringOf(flat.StringPrefix), nil

	case idl.FlatArray:
		items, err := h.Hydrate(flat.ArrayItems, generics)
		if err != nil {
			return nil, idlerr.Crumb(err, "array.items")
		}
		n, err := h.reduceConst(flat.ArrayLength, generics)
		if err != nil {
			return nil, idlerr.Crumb(err, "array.length")
		}
		return idl.FullArrayOf(items, int(n)), nil

	case idl.FlatStruct:
		fields, err := h.hydrateFields(flat.StructFields, generics)
		if err != nil {
			return nil, err
		}
		return idl.FullStructOf(fields), nil

	case idl.FlatEnum:
		variants := make([]idl.EnumVariantFull, 0, len(flat.EnumVariants))
		nextOrdinal := 0
		for _, v := range flat.EnumVariants {
			fields, err := h.hydrateFields(v.Fields, generics)
			if err != nil {
				return nil, idlerr.Crumb(err, "enum."+v.Name)
			}
			code := nextOrdinal
			if v.Code != nil {
				code = *v.Code
			}
			nextOrdinal = code + 1
			variants = append(variants, idl.EnumVariantFull{Name: v.Name, Docs: v.Docs, Code: code, Fields: fields})
		}
		return idl.FullEnumOf(flat.EnumPrefix, variants), nil

	case idl.FlatPadded:
		content, err := h.Hydrate(flat.PaddedContent, generics)
		if err != nil {
			return nil, idlerr.Crumb(err, "padded")
		}
		return idl.FullPaddedOf(flat.PaddedBefore, flat.PaddedMinSize, flat.PaddedAfter, content), nil
	}
	return nil, idlerr.New(idlerr.KindParseFailure, "unknown flat type kind")
}

// hydrateFields hydrates each field's type in declaration order, keeping
// field names/docs attached.
func (h *Hydrator) hydrateFields(f idl.Fields, generics map[string]Binding) (idl.Fields, error) {
	switch f.Shape {
	case idl.FieldsNone:
		return idl.Fields{Shape: idl.FieldsNone}, nil
	case idl.FieldsNamed:
		out := make([]idl.NamedField, 0, len(f.Named))
		for _, nf := range f.Named {
			ft, err := h.Hydrate(nf.Type.(*idl.TypeFlat), generics)
			if err != nil {
				return idl.Fields{}, idlerr.Crumb(err, nf.Name)
			}
			out = append(out, idl.NamedField{Name: nf.Name, Docs: nf.Docs, Type: ft})
		}
		return idl.Fields{Shape: idl.FieldsNamed, Named: out}, nil
	case idl.FieldsUnnamed:
		out := make([]interface{}, 0, len(f.Unnamed))
		for i, u := range f.Unnamed {
			ft, err := h.Hydrate(u.(*idl.TypeFlat), generics)
			if err != nil {
				return idl.Fields{}, idlerr.Crumb(err, fmt.Sprintf("%d", i))
			}
			out = append(out, ft)
		}
		return idl.Fields{Shape: idl.FieldsUnnamed, Unnamed: out}, nil
	}
	return idl.Fields{}, nil
}

// reduceConst reduces an array-length flat type to a concrete int64: it
// must resolve (directly, or via a const-generic substitution) to a
// FlatConst literal (§4.2 step 3).
func (h *Hydrator) reduceConst(flat *idl.TypeFlat, generics map[string]Binding) (int64, error) {
	switch flat.Kind {
	case idl.FlatConst:
		return flat.ConstLiteral, nil
	case idl.FlatGeneric:
		b, ok := generics[flat.GenericSymbol]
		if !ok {
			return 0, idlerr.New(idlerr.KindUnresolvedGeneric, flat.GenericSymbol)
		}
		if !b.IsConst {
			return 0, idlerr.New(idlerr.KindUnresolvedGeneric,
				fmt.Sprintf("%s is a type generic, not const", flat.GenericSymbol))
		}
		return b.Const, nil
	default:
		return 0, idlerr.New(idlerr.KindParseFailure, "array length did not reduce to a constant")
	}
}

// hydrateDefined implements §4.2 step 1: look up the typedef, build a
// local generics map from the Defined's generic arguments, recurse into
// the typedef body, and wrap the result in a Typedef envelope. Cycle
// detection (§9): re-entering the same (name, generics-signature) while
// that typedef is still being hydrated is a CyclicTypedef failure whatever
// lies on the path back to the re-entry, so a recursive type is rejected
// even when a Vec or Option sits between it and its self-reference.
func (h *Hydrator) hydrateDefined(flat *idl.TypeFlat, generics map[string]Binding) (*idl.TypeFull, error) {
	td, ok := h.Typedefs[flat.DefinedName]
	if !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "undefined type "+flat.DefinedName)
	}
	if len(td.Generics) != len(flat.DefinedGenerics) {
		return nil, idlerr.New(idlerr.KindParseFailure,
			fmt.Sprintf("%s expects %d generics, got %d", flat.DefinedName, len(td.Generics), len(flat.DefinedGenerics)))
	}

	local := make(map[string]Binding, len(td.Generics))
	for i, param := range td.Generics {
		arg := flat.DefinedGenerics[i]
		if arg.Kind == idl.FlatConst {
			local[param] = Binding{IsConst: true, Const: arg.ConstLiteral}
			continue
		}
		if arg.Kind == idl.FlatGeneric {
			// Pass the caller's own binding through unchanged.
			b, ok := generics[arg.GenericSymbol]
			if !ok {
				return nil, idlerr.New(idlerr.KindUnresolvedGeneric, arg.GenericSymbol)
			}
			local[param] = b
			continue
		}
		ft, err := h.Hydrate(arg, generics)
		if err != nil {
			return nil, idlerr.Crumb(err, flat.DefinedName+"<"+param+">")
		}
		local[param] = Binding{Type: ft}
	}

	sig := signature(flat.DefinedName, local)
	if idx := h.findFrame(flat.DefinedName, sig); idx >= 0 {
		return nil, idlerr.New(idlerr.KindCyclicTypedef, flat.DefinedName)
	}
	h.stack = append(h.stack, frame{name: flat.DefinedName, sig: sig})
	defer func() { h.stack = h.stack[:len(h.stack)-1] }()

	invariant.Invariant(len(h.stack) <= len(h.Typedefs)+1, "hydration stack must not exceed typedef count")

	content, err := h.hydrateBodyGuardingCycle(td, local)
	if err != nil {
		return nil, idlerr.Crumb(err, flat.DefinedName)
	}

	full := idl.FullTypedefOf(flat.DefinedName, td.Repr, content)
	if td.Serialization == idl.SerializationBytemuck {
		laidOut, layout, err := ApplyRepr(full.TypedefRepr, content)
		if err != nil {
			return nil, idlerr.Crumb(err, flat.DefinedName)
		}
		full.TypedefContent = laidOut
		full.TypedefLayout = layout
	}
	return full, nil
}

// hydrateBodyGuardingCycle hydrates td's body. The cycle check itself is the
// stack lookup in hydrateDefined; no Vec/Option/Typedef wrapper inside the
// body exempts a self-reference from it.
func (h *Hydrator) hydrateBodyGuardingCycle(td *idl.Typedef, local map[string]Binding) (*idl.TypeFull, error) {
	return h.Hydrate(td.TypeFlat, local)
}

func (h *Hydrator) findFrame(name, sig string) int {
	for i, f := range h.stack {
		if f.name == name && f.sig == sig {
			return i
		}
	}
	return -1
}

// signature builds a stable string key for a (typedef name, generics
// binding) pair so the cycle-detection stack can recognize re-entry with
// the exact same instantiation.
func signature(name string, local map[string]Binding) string {
	keys := make([]string, 0, len(local))
	for k := range local {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		binding := local[k]
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		if binding.IsConst {
			fmt.Fprintf(&b, "const:%d", binding.Const)
		} else {
			b.WriteString(describe(binding.Type))
		}
	}
	return b.String()
}

// describe renders a shallow, cycle-safe description of a full type for
// use in the instantiation signature - it only needs to distinguish
// distinct instantiations, not fully serialize the tree.
func describe(t *idl.TypeFull) string {
	if t == nil {
		return "nil"
	}
	switch t.Kind {
	case idl.FullPrimitive:
		return "prim:" + t.Primitive.String()
	case idl.FullTypedef:
		return "typedef:" + t.TypedefName
	case idl.FullVec:
		return "vec"
	case idl.FullOption:
		return "option"
	case idl.FullArray:
		return fmt.Sprintf("array:%d", t.ArrayLength)
	case idl.FullString:
		return "string"
	default:
		return "composite"
	}
}
