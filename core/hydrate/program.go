package hydrate

import (
	"go.uber.org/zap"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// Program runs the hydrator over every typedef-referencing entity of p,
// populating each Account/Event's ContentTypeFull and each Instruction's
// ArgsTypeFull in place (§4.2, C4/C8 wiring). log may be nil.
//
// Typedef bodies are not hydrated standalone - a typedef's content is only
// ever reached through a Defined reference from an account/event/instruction
// field, at which point hydrateDefined resolves it with whatever generics
// binding that reference supplies.
func Program(p *idl.Program, log *zap.Logger) error {
	h := New(p.Typedefs, log)
	noGenerics := map[string]Binding{}

	for _, name := range p.AccountOrder {
		a := p.Accounts[name]
		full, err := h.Hydrate(a.ContentTypeFlat, noGenerics)
		if err != nil {
			return idlerr.Crumb(err, "accounts."+name)
		}
		a.ContentTypeFull = full
	}

	for _, name := range p.EventOrder {
		e := p.Events[name]
		full, err := h.Hydrate(e.ContentTypeFlat, noGenerics)
		if err != nil {
			return idlerr.Crumb(err, "events."+name)
		}
		e.ContentTypeFull = full
	}

	for _, name := range p.InstructionOrder {
		ix := p.Instructions[name]
		fields, err := h.hydrateFields(ix.ArgsTypeFlat, noGenerics)
		if err != nil {
			return idlerr.Crumb(err, "instructions."+name+".args")
		}
		ix.ArgsTypeFull = fields
	}

	return nil
}
