package resolve

import (
	"context"

	"github.com/solana-toolbox/toolbox-idl-go/core/codec"
	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// evalSeed evaluates one seed blob to its wire-encoded bytes per §4.7 step
// 3a. ok=false (nil error) means the blob depends on a binding that is not
// yet available, so the caller should retry on a later pass.
func evalSeed(ctx context.Context, in Input, blob idl.SeedBlob, bound map[string][]byte) ([]byte, bool, error) {
	switch blob.Kind {
	case idl.SeedConst:
		return evalConstSeed(blob)
	case idl.SeedArg:
		return evalArgSeed(in, blob)
	case idl.SeedAccount:
		return evalAccountSeed(ctx, in, blob, bound)
	default:
		return nil, false, idlerr.New(idlerr.KindParseFailure, "unknown seed kind")
	}
}

func evalConstSeed(blob idl.SeedBlob) ([]byte, bool, error) {
	if blob.ConstType != nil {
		b, err := codec.Encode(blob.ConstValue, blob.ConstType)
		if err != nil {
			return nil, false, idlerr.Crumb(err, "const")
		}
		return b, true, nil
	}
	b, err := seedBytesAsGiven(blob.ConstValue)
	if err != nil {
		return nil, false, idlerr.Crumb(err, "const")
	}
	return b, true, nil
}

func evalArgSeed(in Input, blob idl.SeedBlob) ([]byte, bool, error) {
	v, err := idl.Eval(in.Args, blob.ArgPath)
	if err != nil {
		return nil, false, idlerr.Crumb(err, "arg."+blob.ArgPath.String())
	}
	t := blob.ArgType
	if t == nil {
		argsType := &idl.TypeFull{Kind: idl.FullStruct, StructFields: in.Instruction.ArgsTypeFull}
		t, err = typeAtPath(argsType, blob.ArgPath)
		if err != nil {
			return nil, false, idlerr.Crumb(err, "arg."+blob.ArgPath.String())
		}
	}
	b, err := codec.Encode(v, t)
	if err != nil {
		return nil, false, idlerr.Crumb(err, "arg."+blob.ArgPath.String())
	}
	return b, true, nil
}

func evalAccountSeed(ctx context.Context, in Input, blob idl.SeedBlob, bound map[string][]byte) ([]byte, bool, error) {
	if blob.AccountName == "" {
		return nil, false, idlerr.New(idlerr.KindParseFailure, "account seed missing account name")
	}
	addr, ok := bound[blob.AccountName]
	if !ok {
		return nil, false, nil
	}
	if len(blob.AccountPath) == 0 {
		return addr, true, nil
	}

	account, ok := in.Program.Accounts[blob.AccountName]
	if !ok {
		return nil, false, idlerr.New(idlerr.KindParseFailure, "account seed references undeclared account "+blob.AccountName)
	}
	if in.Fetcher == nil {
		return nil, false, idlerr.New(idlerr.KindFetcherFailure, "no account state fetcher supplied")
	}
	_, data, err := in.Fetcher(ctx, addr)
	if err != nil {
		return nil, false, idlerr.Wrap(idlerr.KindFetcherFailure, "account seed fetch failed", err)
	}
	if data == nil {
		// The referenced account does not exist yet; this seed cannot be
		// evaluated this pass (it may become derivable once other
		// resolution produces it, though in practice a seed that needs to
		// read state generally needs that state to already be on-chain).
		return nil, false, nil
	}

	decoded, err := codec.DecodeAccount(account, data)
	if err != nil {
		return nil, false, idlerr.Crumb(err, "account."+blob.AccountName)
	}
	v, err := idl.Eval(decoded, blob.AccountPath)
	if err != nil {
		return nil, false, idlerr.Crumb(err, "account."+blob.AccountName+"."+blob.AccountPath.String())
	}

	t := blob.AccountType
	if t == nil {
		t, err = typeAtPath(account.ContentTypeFull, blob.AccountPath)
		if err != nil {
			return nil, false, idlerr.Crumb(err, "account."+blob.AccountName+"."+blob.AccountPath.String())
		}
	}
	b, err := codec.Encode(v, t)
	if err != nil {
		return nil, false, idlerr.Crumb(err, "account."+blob.AccountName)
	}
	return b, true, nil
}

// seedBytesAsGiven extracts raw bytes from a const seed's `value` literal
// with no type annotation: a Bytes/array-of-byte literal is used verbatim,
// a string is used as its UTF-8 bytes.
func seedBytesAsGiven(v *idl.Value) ([]byte, error) {
	if b, ok := v.AsBytes(); ok {
		return b, nil
	}
	if s, ok := v.AsString(); ok {
		return []byte(s), nil
	}
	if items, ok := v.AsArray(); ok {
		out := make([]byte, len(items))
		for i, it := range items {
			n, ok := it.AsNumber()
			if !ok || n.Int < 0 || n.Int > 255 {
				return nil, idlerr.New(idlerr.KindParseFailure, "const seed array must hold byte values 0..255")
			}
			out[i] = byte(n.Int)
		}
		return out, nil
	}
	return nil, idlerr.New(idlerr.KindParseFailure, "const seed value must be bytes, a string, or a byte array")
}

// typeAtPath walks t's shape following p, the type-level counterpart to
// idl.Eval, used to infer a seed's wire encoding when no explicit type
// annotation was given.
func typeAtPath(t *idl.TypeFull, p idl.Path) (*idl.TypeFull, error) {
	cur := t
	for i, part := range p {
		cur = cur.Deref()
		for cur != nil && cur.Kind == idl.FullOption {
			cur = cur.OptionContent.Deref()
		}
		if cur == nil {
			return nil, idlerr.New(idlerr.KindPathNotFound, "nil type at "+p[:i].String())
		}
		switch cur.Kind {
		case idl.FullStruct:
			if part.IsIndex {
				if cur.StructFields.Shape != idl.FieldsUnnamed || part.Index >= len(cur.StructFields.Unnamed) {
					return nil, idlerr.New(idlerr.KindPathTypeMismatch, "expected named field key at "+p[:i+1].String())
				}
				cur = cur.StructFields.Unnamed[part.Index].(*idl.TypeFull)
				continue
			}
			nf, ok := findNamedField(cur.StructFields, part.Key)
			if !ok {
				return nil, idlerr.New(idlerr.KindPathNotFound, p[:i+1].String())
			}
			cur = nf.Type.(*idl.TypeFull)
		case idl.FullArray:
			if !part.IsIndex || part.Index < 0 || part.Index >= cur.ArrayLength {
				return nil, idlerr.New(idlerr.KindPathTypeMismatch, "expected array index at "+p[:i+1].String())
			}
			cur = cur.ArrayItems
		case idl.FullVec:
			if !part.IsIndex {
				return nil, idlerr.New(idlerr.KindPathTypeMismatch, "expected vec index at "+p[:i+1].String())
			}
			cur = cur.VecItems
		default:
			return nil, idlerr.New(idlerr.KindPathTypeMismatch, "scalar type has no children at "+p[:i].String())
		}
	}
	cur = cur.Deref()
	for cur != nil && cur.Kind == idl.FullOption {
		cur = cur.OptionContent.Deref()
	}
	return cur, nil
}

func findNamedField(f idl.Fields, name string) (idl.NamedField, bool) {
	if f.Shape != idl.FieldsNamed {
		return idl.NamedField{}, false
	}
	for _, nf := range f.Named {
		if nf.Name == name {
			return nf, true
		}
	}
	return idl.NamedField{}, false
}
