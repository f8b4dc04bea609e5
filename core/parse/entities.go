package parse

import (
	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

func parseTypedef(name string, body *idl.Value) (*idl.Typedef, error) {
	generics := parseGenericNames(body)
	flat, err := parseInlineOrRefType(body)
	if err != nil {
		return nil, idlerr.Crumb(err, name)
	}
	td := &idl.Typedef{
		Name:     name,
		Docs:     getDocs(body),
		Generics: generics,
		TypeFlat: flat,
	}
	switch getString(body, "serialization") {
	case "bytemuck":
		td.Serialization = idl.SerializationBytemuck
	case "borsh", "":
		td.Serialization = idl.SerializationBorsh
	default:
		td.Serialization = idl.SerializationBorsh
	}
	switch getString(body, "repr") {
	case "c":
		td.Repr = idl.ReprC
	case "rust":
		td.Repr = idl.ReprRust
	case "transparent":
		td.Repr = idl.ReprTransparent
	}
	return td, nil
}

// parseGenericNames reads a typedef's `generics` list, accepting either a
// bare string name or a `{kind:"type", name:"T"}`-shaped entry (anchor's
// modern form).
func parseGenericNames(body *idl.Value) []string {
	genV, ok := body.ObjectGet("generics")
	if !ok {
		return nil
	}
	items, ok := genV.AsArray()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.AsString(); ok {
			out = append(out, s)
			continue
		}
		if n := getString(it, "name"); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func parseAccount(name string, body *idl.Value) (*idl.Account, error) {
	flat, err := parseInlineOrRefType(body)
	if err != nil {
		return nil, idlerr.Crumb(err, name)
	}
	a := &idl.Account{
		Name:            name,
		Docs:            getDocs(body),
		ContentTypeFlat: flat,
	}
	if n, ok := getOptInt(body, "space"); ok {
		a.Space = &n
	}
	if disc, ok := body.ObjectGet("discriminator"); ok {
		b, err := decodeByteArray(disc)
		if err != nil {
			return nil, idlerr.Crumb(err, name+".discriminator")
		}
		a.Discriminator = b
	} else {
		a.Discriminator = idl.DefaultDiscriminator(idl.TagAccount, name)
	}
	if blobsV, ok := body.ObjectGet("blobs"); ok {
		items, _ := blobsV.AsArray()
		for i, it := range items {
			offset, _ := getOptInt(it, "offset")
			bytesV, ok := it.ObjectGet("bytes")
			if !ok {
				return nil, idlerr.New(idlerr.KindParseFailure, "blob missing bytes").WithCrumbf("%s.blobs.%d", name, i)
			}
			b, err := decodeByteArray(bytesV)
			if err != nil {
				return nil, idlerr.Crumb(err, name)
			}
			a.Blobs = append(a.Blobs, idl.Blob{Offset: offset, Bytes: b})
		}
	}
	return a, nil
}

func parseEvent(name string, body *idl.Value) (*idl.Event, error) {
	flat, err := parseInlineOrRefType(body)
	if err != nil {
		return nil, idlerr.Crumb(err, name)
	}
	e := &idl.Event{Name: name, Docs: getDocs(body), ContentTypeFlat: flat}
	if disc, ok := body.ObjectGet("discriminator"); ok {
		b, err := decodeByteArray(disc)
		if err != nil {
			return nil, idlerr.Crumb(err, name+".discriminator")
		}
		e.Discriminator = b
	} else {
		e.Discriminator = idl.DefaultDiscriminator(idl.TagEvent, name)
	}
	return e, nil
}

func parseError(name string, body *idl.Value) (*idl.ProgramError, error) {
	if n, ok := body.AsNumber(); ok {
		return &idl.ProgramError{Name: name, Code: int(n.Int)}, nil
	}
	code, ok := getOptInt(body, "code")
	if !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "error missing code").WithCrumb(name)
	}
	e := &idl.ProgramError{Name: name, Docs: getDocs(body), Code: code}
	if msg, ok := getOptString(body, "msg"); ok {
		e.Msg = &msg
	}
	return e, nil
}

func parseInstruction(name string, body *idl.Value) (*idl.Instruction, error) {
	ix := &idl.Instruction{Name: name, Docs: getDocs(body)}
	if disc, ok := body.ObjectGet("discriminator"); ok {
		b, err := decodeByteArray(disc)
		if err != nil {
			return nil, idlerr.Crumb(err, name+".discriminator")
		}
		ix.Discriminator = b
	} else {
		ix.Discriminator = idl.DefaultDiscriminator(idl.TagGlobal, name)
	}
	if accountsV, ok := body.ObjectGet("accounts"); ok {
		items, _ := accountsV.AsArray()
		for _, it := range items {
			acc, err := parseInstructionAccount(it)
			if err != nil {
				return nil, idlerr.Crumb(err, name)
			}
			ix.Accounts = append(ix.Accounts, acc)
		}
	}
	argsV, ok := body.ObjectGet("args")
	if !ok {
		ix.ArgsTypeFlat = idl.Fields{Shape: idl.FieldsNone}
		return ix, nil
	}
	fields, err := parseFieldsBody(argsV)
	if err != nil {
		return nil, idlerr.Crumb(err, name+".args")
	}
	ix.ArgsTypeFlat = fields
	return ix, nil
}

func parseInstructionAccount(v *idl.Value) (idl.InstructionAccount, error) {
	name := getString(v, "name")
	if name == "" {
		return idl.InstructionAccount{}, idlerr.New(idlerr.KindParseFailure, "instruction account missing name")
	}
	acc := idl.InstructionAccount{
		Name:     name,
		Docs:     getDocs(v),
		Writable: getBoolSynonym(v, "writable", "isMut"),
		Signer:   getBoolSynonym(v, "signer", "isSigner"),
		Optional: getBoolSynonym(v, "optional", "isOptional"),
	}
	if addrV, ok := v.ObjectGet("address"); ok {
		b, err := decodeAddress(addrV)
		if err != nil {
			return idl.InstructionAccount{}, idlerr.Crumb(err, name+".address")
		}
		acc.Address = b
	}
	if pdaV, ok := v.ObjectGet("pda"); ok {
		pda, err := parsePda(pdaV)
		if err != nil {
			return idl.InstructionAccount{}, idlerr.Crumb(err, name+".pda")
		}
		acc.Pda = pda
	}
	return acc, nil
}

func parsePda(v *idl.Value) (*idl.Pda, error) {
	pda := &idl.Pda{}
	if seedsV, ok := v.ObjectGet("seeds"); ok {
		items, _ := seedsV.AsArray()
		for _, it := range items {
			blob, err := parseSeedBlob(it)
			if err != nil {
				return nil, idlerr.Crumb(err, "seeds")
			}
			pda.Seeds = append(pda.Seeds, blob)
		}
	}
	if progV, ok := v.ObjectGet("program"); ok {
		blob, err := parseSeedBlob(progV)
		if err != nil {
			return nil, idlerr.Crumb(err, "program")
		}
		pda.Program = &blob
	}
	return pda, nil
}

// parseSeedBlob parses one `pda.seeds[i]` entry (§4.5 rule 6): `kind` may be
// omitted and inferred from whichever of `value`/`account`/`path` is
// present.
func parseSeedBlob(v *idl.Value) (idl.SeedBlob, error) {
	kind := getString(v, "kind")
	if kind == "" {
		switch {
		case hasKey(v, "value"):
			kind = "const"
		case hasKey(v, "account"):
			kind = "account"
		case hasKey(v, "path"):
			kind = "arg"
		}
	}
	switch kind {
	case "const":
		valueV, ok := v.ObjectGet("value")
		if !ok {
			return idl.SeedBlob{}, idlerr.New(idlerr.KindParseFailure, "const seed missing value")
		}
		blob := idl.SeedBlob{Kind: idl.SeedConst, ConstValue: valueV}
		if typeV, ok := v.ObjectGet("type"); ok {
			t, err := parseSimpleTypeFull(typeV)
			if err != nil {
				return idl.SeedBlob{}, idlerr.Crumb(err, "type")
			}
			blob.ConstType = t
		}
		return blob, nil
	case "arg":
		pathStr := getString(v, "path")
		blob := idl.SeedBlob{Kind: idl.SeedArg, ArgPath: idl.ParsePath(pathStr)}
		if typeV, ok := v.ObjectGet("type"); ok {
			t, err := parseSimpleTypeFull(typeV)
			if err != nil {
				return idl.SeedBlob{}, idlerr.Crumb(err, "type")
			}
			blob.ArgType = t
		}
		return blob, nil
	case "account":
		pathStr, _ := getOptString(v, "path")
		blob := idl.SeedBlob{
			Kind:        idl.SeedAccount,
			AccountPath: idl.ParsePath(pathStr),
			AccountName: getString(v, "account"),
		}
		if typeV, ok := v.ObjectGet("type"); ok {
			t, err := parseSimpleTypeFull(typeV)
			if err != nil {
				return idl.SeedBlob{}, idlerr.Crumb(err, "type")
			}
			blob.AccountType = t
		}
		return blob, nil
	default:
		return idl.SeedBlob{}, idlerr.New(idlerr.KindParseFailure, "seed missing kind and no sibling key to infer it from")
	}
}

func hasKey(v *idl.Value, key string) bool {
	_, ok := v.ObjectGet(key)
	return ok
}

// parseSimpleTypeFull parses a seed's optional `type` annotation directly to
// a TypeFull: seeds are evaluated before the hydrator runs and their type
// annotations are always primitive/vec/array/option/string, never a Defined
// reference into the typedef table, so no generics resolution is needed.
func parseSimpleTypeFull(v *idl.Value) (*idl.TypeFull, error) {
	flat, err := parseTypeExpr(v)
	if err != nil {
		return nil, err
	}
	return simpleFlatToFull(flat)
}

func simpleFlatToFull(t *idl.TypeFlat) (*idl.TypeFull, error) {
	switch t.Kind {
	case idl.FlatPrimitive:
		return idl.FullPrim(t.Primitive), nil
	case idl.FlatString:
		return idl.FullStringOf(t.StringPrefix), nil
	case idl.FlatVec:
		items, err := simpleFlatToFull(t.VecItems)
		if err != nil {
			return nil, err
		}
		return idl.FullVecOf(t.VecPrefix, items), nil
	case idl.FlatOption:
		content, err := simpleFlatToFull(t.OptionContent)
		if err != nil {
			return nil, err
		}
		return idl.FullOptionOf(t.OptionPrefix, content), nil
	case idl.FlatArray:
		items, err := simpleFlatToFull(t.ArrayItems)
		if err != nil {
			return nil, err
		}
		if t.ArrayLength.Kind != idl.FlatConst {
			return nil, idlerr.New(idlerr.KindParseFailure, "seed array type needs a literal length")
		}
		return idl.FullArrayOf(items, int(t.ArrayLength.ConstLiteral)), nil
	default:
		return nil, idlerr.New(idlerr.KindParseFailure, "unsupported seed type kind (must be primitive/string/vec/array/option)")
	}
}
