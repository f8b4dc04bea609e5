package codec

import (
	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// EncodeInstruction renders an instruction's args and its resolved account
// metas into wire bytes plus an ordered account-meta list (SPEC_FULL.md
// supplemented feature 3). addresses must contain every declared account
// by name - run the resolver first for accounts not supplied directly.
func EncodeInstruction(ix *idl.Instruction, args *idl.Value, addresses map[string]idl.AccountMeta) ([]byte, []idl.AccountMeta, error) {
	data, err := EncodeWithDiscriminator(ix.Discriminator, args, &idl.TypeFull{Kind: idl.FullStruct, StructFields: ix.ArgsTypeFull})
	if err != nil {
		return nil, nil, idlerr.Crumb(err, ix.Name)
	}
	metas := make([]idl.AccountMeta, 0, len(ix.Accounts))
	for _, decl := range ix.Accounts {
		meta, ok := addresses[decl.Name]
		if !ok {
			if decl.Optional {
				continue
			}
			return nil, nil, idlerr.New(idlerr.KindParseFailure, "missing resolved account "+decl.Name)
		}
		meta.Name = decl.Name
		meta.Writable = decl.Writable
		meta.Signer = decl.Signer
		metas = append(metas, meta)
	}
	return data, metas, nil
}

// DecodeInstruction is EncodeInstruction's inverse: wire bytes plus the
// account metas actually sent on-chain map back to an args value and a
// name->meta map.
func DecodeInstruction(ix *idl.Instruction, data []byte, metas []idl.AccountMeta) (*idl.Value, map[string]idl.AccountMeta, error) {
	args, err := DecodeWithDiscriminator(ix.Discriminator, data, &idl.TypeFull{Kind: idl.FullStruct, StructFields: ix.ArgsTypeFull})
	if err != nil {
		return nil, nil, idlerr.Crumb(err, ix.Name)
	}
	if len(metas) < len(ix.Accounts) {
		// Optional trailing accounts may be omitted; anything declared
		// and non-optional but missing is an error.
		for i := len(metas); i < len(ix.Accounts); i++ {
			if !ix.Accounts[i].Optional {
				return nil, nil, idlerr.New(idlerr.KindParseFailure, "missing account meta for "+ix.Accounts[i].Name)
			}
		}
	}
	out := make(map[string]idl.AccountMeta, len(metas))
	for i, decl := range ix.Accounts {
		if i >= len(metas) {
			break
		}
		m := metas[i]
		m.Name = decl.Name
		out[decl.Name] = m
	}
	return args, out, nil
}
