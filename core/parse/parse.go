// Package parse implements the IDL document parser (§4.5): it turns a JSON
// document in any of the three historical dialects into a Program. Dialect
// is never checked up front - every accessor in this package accepts
// whichever of the object/array, wrapped/unwrapped, camelCase/snake_case
// forms a given document uses, so one pass handles all three.
package parse

import (
	"go.uber.org/zap"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// Parse decodes raw IDL document bytes into a Program. log may be nil, in
// which case a no-op logger is used.
func Parse(data []byte, log *zap.Logger) (*idl.Program, error) {
	if log == nil {
		log = zap.NewNop()
	}
	root, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	if _, ok := root.AsObject(); !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "document must be rooted at an object")
	}
	log.Debug("parsing IDL document")
	return ParseValue(root)
}

// ParseValue parses an already-decoded document root (useful for callers
// building a Program in-memory without going through JSON).
func ParseValue(root *idl.Value) (*idl.Program, error) {
	p := idl.NewProgram()
	p.Metadata = parseMetadata(root)

	typedefs, err := iterateNamed(root, "types")
	if err != nil {
		return nil, err
	}
	for _, e := range typedefs {
		td, err := parseTypedef(e.Name, e.Body)
		if err != nil {
			return nil, idlerr.Crumb(err, "types")
		}
		p.Typedefs[e.Name] = td
		p.TypedefOrder = append(p.TypedefOrder, e.Name)
	}

	accounts, err := iterateNamed(root, "accounts")
	if err != nil {
		return nil, err
	}
	for _, e := range accounts {
		a, err := parseAccount(e.Name, e.Body)
		if err != nil {
			return nil, idlerr.Crumb(err, "accounts")
		}
		p.Accounts[e.Name] = a
		p.AccountOrder = append(p.AccountOrder, e.Name)
	}

	instructions, err := iterateNamed(root, "instructions")
	if err != nil {
		return nil, err
	}
	for _, e := range instructions {
		ix, err := parseInstruction(e.Name, e.Body)
		if err != nil {
			return nil, idlerr.Crumb(err, "instructions")
		}
		p.Instructions[e.Name] = ix
		p.InstructionOrder = append(p.InstructionOrder, e.Name)
	}

	events, err := iterateNamed(root, "events")
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		ev, err := parseEvent(e.Name, e.Body)
		if err != nil {
			return nil, idlerr.Crumb(err, "events")
		}
		p.Events[e.Name] = ev
		p.EventOrder = append(p.EventOrder, e.Name)
	}

	errs, err := iterateNamed(root, "errors")
	if err != nil {
		return nil, err
	}
	for _, e := range errs {
		pe, err := parseError(e.Name, e.Body)
		if err != nil {
			return nil, idlerr.Crumb(err, "errors")
		}
		p.AddError(e.Name, pe)
	}

	return p, nil
}

// parseMetadata reads the optional `metadata` object, falling back to
// root-level fields for dialects that keep name/version alongside it
// (SPEC_FULL.md supplemented feature 5). Only the six known metadata fields
// are kept; any other metadata key is ignored, as are keys the parser does
// not read anywhere else in the document.
func parseMetadata(root *idl.Value) idl.Metadata {
	m := idl.Metadata{}
	meta, hasMeta := root.ObjectGet("metadata")
	get := func(key string) (string, bool) {
		if hasMeta {
			if s, ok := getOptString(meta, key); ok {
				return s, true
			}
		}
		return getOptString(root, key)
	}
	if s, ok := get("address"); ok {
		m.Address = &s
	}
	if s, ok := get("name"); ok {
		m.Name = &s
	}
	if s, ok := get("description"); ok {
		m.Description = &s
	}
	if s, ok := get("version"); ok {
		m.Version = &s
	}
	if s, ok := get("spec"); ok {
		m.Spec = &s
	}
	if hasMeta {
		m.Docs = getDocs(meta)
	} else {
		m.Docs = getDocs(root)
	}
	return m
}
