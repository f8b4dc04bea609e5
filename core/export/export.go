package export

import (
	"github.com/mr-tron/base58"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
)

// Export renders a Program to a document value tree under the given format
// flags. Export never fails: every Program the core can construct is
// representable in every dialect (a parsed-then-exported document may add
// explicit fields - like a discriminator the source left implicit - a
// re-parse accepts identically, satisfying §4.6's round-trip property).
func Export(p *idl.Program, flags Flags) *idl.Value {
	var root []idl.KV

	meta := metadataPairs(p.Metadata)
	if flags.UseRootAlsoAsMetadataObject {
		root = append(root, meta...)
	} else if len(meta) > 0 {
		root = append(root, idl.KV{Key: "metadata", Val: idl.Obj(meta...)})
	}

	if len(p.TypedefOrder) > 0 {
		root = append(root, idl.KV{Key: "types", Val: namedCollection(p.TypedefOrder, flags, func(name string) *idl.Value {
			return typedefEntry(p.Typedefs[name], flags)
		})})
	}
	if len(p.AccountOrder) > 0 {
		root = append(root, idl.KV{Key: "accounts", Val: namedCollection(p.AccountOrder, flags, func(name string) *idl.Value {
			return accountEntry(p.Accounts[name], flags)
		})})
	}
	if len(p.InstructionOrder) > 0 {
		root = append(root, idl.KV{Key: "instructions", Val: namedCollection(instructionExportNames(p, flags), flags, func(name string) *idl.Value {
			return instructionEntry(p.Instructions[instructionOriginalName(p, name, flags)], flags)
		})})
	}
	if len(p.EventOrder) > 0 {
		root = append(root, idl.KV{Key: "events", Val: namedCollection(p.EventOrder, flags, func(name string) *idl.Value {
			return eventEntry(p.Events[name], flags)
		})})
	}
	if len(p.ErrorOrder) > 0 {
		root = append(root, idl.KV{Key: "errors", Val: namedCollection(p.ErrorOrder, flags, func(name string) *idl.Value {
			return errorEntry(p.Errors[name], flags)
		})})
	}

	return idl.Obj(root...)
}

// instructionExportNames/instructionOriginalName let the instructions
// collection key itself by the (possibly camelCased) exported name while
// still looking the Instruction up by its canonical stored name.
func instructionExportNames(p *idl.Program, flags Flags) []string {
	if !flags.UseCamelCaseInstructionNames {
		return p.InstructionOrder
	}
	out := make([]string, len(p.InstructionOrder))
	for i, n := range p.InstructionOrder {
		out[i] = snakeToCamel(n)
	}
	return out
}

func instructionOriginalName(p *idl.Program, exported string, flags Flags) string {
	if !flags.UseCamelCaseInstructionNames {
		return exported
	}
	for _, n := range p.InstructionOrder {
		if snakeToCamel(n) == exported {
			return n
		}
	}
	return exported
}

func metadataPairs(m idl.Metadata) []idl.KV {
	var pairs []idl.KV
	if m.Address != nil {
		pairs = append(pairs, idl.KV{Key: "address", Val: idl.Str(*m.Address)})
	}
	if m.Name != nil {
		pairs = append(pairs, idl.KV{Key: "name", Val: idl.Str(*m.Name)})
	}
	if m.Description != nil {
		pairs = append(pairs, idl.KV{Key: "description", Val: idl.Str(*m.Description)})
	}
	if m.Version != nil {
		pairs = append(pairs, idl.KV{Key: "version", Val: idl.Str(*m.Version)})
	}
	if m.Spec != nil {
		pairs = append(pairs, idl.KV{Key: "spec", Val: idl.Str(*m.Spec)})
	}
	if len(m.Docs) > 0 {
		pairs = append(pairs, idl.KV{Key: "docs", Val: docsValue(m.Docs)})
	}
	return pairs
}

// namedCollection renders an ordered name list plus a per-name body
// builder as either an object (name -> body) or an array of
// {name, ...body} entries, per UseObjectForUnorderedNamedArray (§4.5 rule
// 1, §4.6).
func namedCollection(names []string, flags Flags, body func(name string) *idl.Value) *idl.Value {
	if flags.UseObjectForUnorderedNamedArray {
		pairs := make([]idl.KV, len(names))
		for i, n := range names {
			pairs[i] = idl.KV{Key: n, Val: body(n)}
		}
		return idl.Obj(pairs...)
	}
	items := make([]*idl.Value, len(names))
	for i, n := range names {
		entry := body(n)
		pairs := append([]idl.KV{{Key: "name", Val: idl.Str(n)}}, objectPairs(entry)...)
		items[i] = idl.Obj(pairs...)
	}
	return idl.Arr(items...)
}

func objectPairs(v *idl.Value) []idl.KV {
	keys := v.ObjectKeys()
	pairs := make([]idl.KV, len(keys))
	for i, k := range keys {
		val, _ := v.ObjectGet(k)
		pairs[i] = idl.KV{Key: k, Val: val}
	}
	return pairs
}

// typedefBody renders the (kind, fields|variants) or bare-alias shape
// shared by typedefs, account content, and event content (§4.5 rule 2).
func typedefBody(t *idl.TypeFlat, flags Flags) *idl.Value {
	if t.Kind == idl.FlatStruct || t.Kind == idl.FlatEnum {
		return structOrEnumBody(t, flags)
	}
	return typeExpr(t, flags)
}

// wrapInlineOrRef applies the typedef-body `type` wrapper toggle
// (CanSkipTypedefTypeObjectWrap) uniformly across typedefs/accounts/events.
func wrapInlineOrRef(body *idl.Value, flags Flags) []idl.KV {
	if flags.CanSkipTypedefTypeObjectWrap {
		if _, ok := body.AsObject(); ok {
			return objectPairs(body)
		}
	}
	return []idl.KV{{Key: "type", Val: body}}
}

func typedefEntry(td *idl.Typedef, flags Flags) *idl.Value {
	var pairs []idl.KV
	if len(td.Docs) > 0 {
		pairs = append(pairs, idl.KV{Key: "docs", Val: docsValue(td.Docs)})
	}
	if len(td.Generics) > 0 {
		items := make([]*idl.Value, len(td.Generics))
		for i, g := range td.Generics {
			if flags.CanSkipTypedefGenericKindKey {
				items[i] = idl.Str(g)
			} else {
				items[i] = idl.Obj(idl.KV{Key: "kind", Val: idl.Str("type")}, idl.KV{Key: "name", Val: idl.Str(g)})
			}
		}
		pairs = append(pairs, idl.KV{Key: "generics", Val: idl.Arr(items...)})
	}
	if td.Serialization == idl.SerializationBytemuck {
		pairs = append(pairs, idl.KV{Key: "serialization", Val: idl.Str("bytemuck")})
	}
	if td.Repr != idl.ReprUnset {
		pairs = append(pairs, idl.KV{Key: "repr", Val: idl.Str(td.Repr.String())})
	}
	pairs = append(pairs, wrapInlineOrRef(typedefBody(td.TypeFlat, flags), flags)...)
	return idl.Obj(pairs...)
}

func accountEntry(a *idl.Account, flags Flags) *idl.Value {
	var pairs []idl.KV
	if len(a.Docs) > 0 {
		pairs = append(pairs, idl.KV{Key: "docs", Val: docsValue(a.Docs)})
	}
	pairs = append(pairs, idl.KV{Key: "discriminator", Val: bytesAsArray(a.Discriminator)})
	if a.Space != nil {
		pairs = append(pairs, idl.KV{Key: "space", Val: idl.Int(int64(*a.Space))})
	}
	if len(a.Blobs) > 0 {
		items := make([]*idl.Value, len(a.Blobs))
		for i, b := range a.Blobs {
			items[i] = idl.Obj(idl.KV{Key: "offset", Val: idl.Int(int64(b.Offset))}, idl.KV{Key: "bytes", Val: bytesAsArray(b.Bytes)})
		}
		pairs = append(pairs, idl.KV{Key: "blobs", Val: idl.Arr(items...)})
	}
	pairs = append(pairs, wrapInlineOrRef(typedefBody(a.ContentTypeFlat, flags), flags)...)
	return idl.Obj(pairs...)
}

func eventEntry(e *idl.Event, flags Flags) *idl.Value {
	var pairs []idl.KV
	if len(e.Docs) > 0 {
		pairs = append(pairs, idl.KV{Key: "docs", Val: docsValue(e.Docs)})
	}
	pairs = append(pairs, idl.KV{Key: "discriminator", Val: bytesAsArray(e.Discriminator)})
	pairs = append(pairs, wrapInlineOrRef(typedefBody(e.ContentTypeFlat, flags), flags)...)
	return idl.Obj(pairs...)
}

func errorEntry(e *idl.ProgramError, flags Flags) *idl.Value {
	// A bare number has nowhere to carry the name in the array-of-entries
	// form, so the shortcut applies only to the object form.
	if flags.CanShortcutErrorToNumberIfNoMsg && flags.UseObjectForUnorderedNamedArray && e.Msg == nil && len(e.Docs) == 0 {
		return idl.Int(int64(e.Code))
	}
	pairs := []idl.KV{{Key: "code", Val: idl.Int(int64(e.Code))}}
	if len(e.Docs) > 0 {
		pairs = append(pairs, idl.KV{Key: "docs", Val: docsValue(e.Docs)})
	}
	if e.Msg != nil {
		pairs = append(pairs, idl.KV{Key: "msg", Val: idl.Str(*e.Msg)})
	}
	return idl.Obj(pairs...)
}

func bytesAsArray(b []byte) *idl.Value {
	items := make([]*idl.Value, len(b))
	for i, x := range b {
		items[i] = idl.Int(int64(x))
	}
	return idl.Arr(items...)
}

func instructionEntry(ix *idl.Instruction, flags Flags) *idl.Value {
	var pairs []idl.KV
	if len(ix.Docs) > 0 {
		pairs = append(pairs, idl.KV{Key: "docs", Val: docsValue(ix.Docs)})
	}
	pairs = append(pairs, idl.KV{Key: "discriminator", Val: bytesAsArray(ix.Discriminator)})
	if len(ix.Accounts) > 0 {
		items := make([]*idl.Value, len(ix.Accounts))
		for i, acc := range ix.Accounts {
			items[i] = instructionAccountEntry(acc, flags)
		}
		pairs = append(pairs, idl.KV{Key: "accounts", Val: idl.Arr(items...)})
	}
	if fv := fieldsValue(ix.ArgsTypeFlat, flags); fv != nil {
		pairs = append(pairs, idl.KV{Key: "args", Val: fv})
	}
	return idl.Obj(pairs...)
}

func instructionAccountEntry(acc idl.InstructionAccount, flags Flags) *idl.Value {
	name := acc.Name
	if flags.UseCamelCaseInstructionAccountNames {
		name = snakeToCamel(name)
	}
	pairs := []idl.KV{{Key: "name", Val: idl.Str(name)}}
	if len(acc.Docs) > 0 {
		pairs = append(pairs, idl.KV{Key: "docs", Val: docsValue(acc.Docs)})
	}
	if flags.UseCamelCaseInstructionAccountFlags {
		pairs = append(pairs, idl.KV{Key: "isMut", Val: idl.Bool(acc.Writable)}, idl.KV{Key: "isSigner", Val: idl.Bool(acc.Signer)})
	} else {
		pairs = append(pairs, idl.KV{Key: "writable", Val: idl.Bool(acc.Writable)}, idl.KV{Key: "signer", Val: idl.Bool(acc.Signer)})
	}
	if acc.Optional {
		pairs = append(pairs, idl.KV{Key: "optional", Val: idl.Bool(true)})
	}
	if acc.Address != nil {
		pairs = append(pairs, idl.KV{Key: "address", Val: idl.Str(base58.Encode(acc.Address))})
	}
	if acc.Pda != nil {
		pairs = append(pairs, idl.KV{Key: "pda", Val: pdaEntry(acc.Pda, flags)})
	}
	return idl.Obj(pairs...)
}

func pdaEntry(pda *idl.Pda, flags Flags) *idl.Value {
	seeds := make([]*idl.Value, len(pda.Seeds))
	for i, s := range pda.Seeds {
		seeds[i] = seedBlobEntry(s, flags)
	}
	pairs := []idl.KV{{Key: "seeds", Val: idl.Arr(seeds...)}}
	if pda.Program != nil {
		pairs = append(pairs, idl.KV{Key: "program", Val: seedBlobEntry(*pda.Program, flags)})
	}
	return idl.Obj(pairs...)
}

func seedBlobEntry(b idl.SeedBlob, flags Flags) *idl.Value {
	var pairs []idl.KV
	switch b.Kind {
	case idl.SeedConst:
		if !flags.CanSkipInstructionAccountPdaKindKey {
			pairs = append(pairs, idl.KV{Key: "kind", Val: idl.Str("const")})
		}
		pairs = append(pairs, idl.KV{Key: "value", Val: b.ConstValue})
		if b.ConstType != nil {
			pairs = append(pairs, idl.KV{Key: "type", Val: simpleTypeFullExpr(b.ConstType, flags)})
		}
	case idl.SeedArg:
		if !flags.CanSkipInstructionAccountPdaKindKey {
			pairs = append(pairs, idl.KV{Key: "kind", Val: idl.Str("arg")})
		}
		pairs = append(pairs, idl.KV{Key: "path", Val: idl.Str(b.ArgPath.String())})
		if b.ArgType != nil {
			pairs = append(pairs, idl.KV{Key: "type", Val: simpleTypeFullExpr(b.ArgType, flags)})
		}
	case idl.SeedAccount:
		if !flags.CanSkipInstructionAccountPdaKindKey {
			pairs = append(pairs, idl.KV{Key: "kind", Val: idl.Str("account")})
		}
		pairs = append(pairs, idl.KV{Key: "path", Val: idl.Str(b.AccountPath.String())})
		if b.AccountName != "" {
			pairs = append(pairs, idl.KV{Key: "account", Val: idl.Str(b.AccountName)})
		}
		if b.AccountType != nil {
			pairs = append(pairs, idl.KV{Key: "type", Val: simpleTypeFullExpr(b.AccountType, flags)})
		}
	}
	return idl.Obj(pairs...)
}
