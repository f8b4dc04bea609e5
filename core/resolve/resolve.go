// Package resolve implements C9, the instruction account resolver (§4.7):
// given a partial set of caller-supplied addresses and an args payload, fill
// in every instruction account whose address is either constant or
// derivable as a PDA, iterating to a fixed point since a seed may itself
// depend on another seeded account's address.
//
// This is the one component in the core allowed to suspend: deriving a PDA
// seed of kind Account may need to fetch that account's on-chain state, so
// every entry point takes a context.Context and an injected Fetcher rather
// than doing network I/O itself.
package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
	"github.com/solana-toolbox/toolbox-idl-go/core/invariant"
)

// Fetcher reads an account's current on-chain state (§6.3:
// `account_state_fetcher(address) -> (owner, account_state or none)`).
// A nil data return with a nil error means the account does not exist.
type Fetcher func(ctx context.Context, address []byte) (owner []byte, data []byte, err error)

// Input bundles everything Resolve needs: the program the instruction
// belongs to (for looking up referenced accounts' content types), the
// instruction itself, the deriving program's own address, the args payload
// (for Arg seeds), any addresses already known, and the state fetcher.
type Input struct {
	Program     *idl.Program
	Instruction *idl.Instruction
	ProgramID   []byte
	Args        *idl.Value
	Known       map[string][]byte
	Fetcher     Fetcher
	Log         *zap.Logger
}

// Resolve runs the fixed-point loop of §4.7 and returns a name->address map
// holding every non-optional declared account of in.Instruction (an
// optional account appears only if it was resolved), or an error:
// Cancelled if ctx is done, UnresolvableCycle if the loop keeps making
// progress past the declared-account pass budget, or UnresolvableAddresses
// if it stalls with accounts still unbound.
func Resolve(ctx context.Context, in Input) (map[string][]byte, error) {
	log := in.Log
	if log == nil {
		log = zap.NewNop()
	}
	invariant.Precondition(in.Instruction != nil, "Resolve requires an instruction")
	invariant.Precondition(in.Program != nil, "Resolve requires the owning program")

	bound := make(map[string][]byte, len(in.Instruction.Accounts))
	for name, addr := range in.Known {
		bound[name] = addr
	}
	for _, acc := range in.Instruction.Accounts {
		if _, ok := bound[acc.Name]; ok {
			continue
		}
		if acc.Address != nil {
			bound[acc.Name] = acc.Address
		}
	}

	passBudget := len(in.Instruction.Accounts)
	for pass := 0; ; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, idlerr.Wrap(idlerr.KindCancelled, "resolve cancelled", err)
		}
		if allBound(in.Instruction, bound) {
			break
		}
		if pass > passBudget {
			return nil, idlerr.New(idlerr.KindUnresolvableCycle,
				"resolution kept producing new bindings past the declared-account pass budget")
		}

		progressed := false
		for _, acc := range in.Instruction.Accounts {
			if _, ok := bound[acc.Name]; ok {
				continue
			}
			if acc.Pda == nil {
				continue
			}
			addr, ok, err := derivePda(ctx, in, acc.Pda, bound)
			if err != nil {
				return nil, idlerr.Crumb(err, acc.Name)
			}
			if ok {
				bound[acc.Name] = addr
				progressed = true
				log.Debug("resolved pda account", zap.String("account", acc.Name), zap.Int("pass", pass))
			}
		}
		if !progressed {
			break
		}
	}

	if !allBound(in.Instruction, bound) {
		return nil, idlerr.UnresolvableAddresses(unboundNames(in.Instruction, bound))
	}
	return bound, nil
}

func allBound(ix *idl.Instruction, bound map[string][]byte) bool {
	for _, acc := range ix.Accounts {
		if acc.Optional {
			continue
		}
		if _, ok := bound[acc.Name]; !ok {
			return false
		}
	}
	return true
}

func unboundNames(ix *idl.Instruction, bound map[string][]byte) []string {
	var out []string
	for _, acc := range ix.Accounts {
		if acc.Optional {
			continue
		}
		if _, ok := bound[acc.Name]; !ok {
			out = append(out, acc.Name)
		}
	}
	return out
}

// derivePda attempts to evaluate every seed of pda against the current
// binding set and, if all are evaluable, derives the address. ok=false
// (with a nil error) means some seed is not yet evaluable this pass - not a
// failure, just "try again next pass".
func derivePda(ctx context.Context, in Input, pda *idl.Pda, bound map[string][]byte) ([]byte, bool, error) {
	seeds := make([][]byte, 0, len(pda.Seeds))
	for _, blob := range pda.Seeds {
		b, ok, err := evalSeed(ctx, in, blob, bound)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		seeds = append(seeds, b)
	}

	programID := in.ProgramID
	if pda.Program != nil {
		b, ok, err := evalSeed(ctx, in, *pda.Program, bound)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		programID = b
	}

	addr, err := derivePdaAddress(seeds, programID)
	if err != nil {
		return nil, false, err
	}
	return addr, true, nil
}
