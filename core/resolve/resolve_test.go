package resolve

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/solana-toolbox/toolbox-idl-go/core/codec"
	"github.com/solana-toolbox/toolbox-idl-go/core/hydrate"
	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
	"github.com/solana-toolbox/toolbox-idl-go/core/parse"
)

const vaultDoc = `{
  "instructions": {
    "init_vault": {
      "accounts": [
        {"name": "authority", "isSigner": true},
        {
          "name": "vault",
          "writable": true,
          "pda": {"seeds": [
            {"kind": "const", "value": [118,97,117,108,116]},
            {"kind": "arg", "path": "authority", "type": "pubkey"}
          ]}
        }
      ],
      "args": [{"name": "authority", "type": "pubkey"}]
    }
  }
}`

func mustResolveSetup(t *testing.T) (*idl.Program, *idl.Instruction) {
	t.Helper()
	p, err := parse.Parse([]byte(vaultDoc), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := hydrate.Program(p, nil); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	return p, p.Instructions["init_vault"]
}

func samplePubkey(fill byte) string {
	raw := bytes.Repeat([]byte{fill}, 32)
	return base58.Encode(raw)
}

func TestResolveDerivesPdaFromConstAndArgSeeds(t *testing.T) {
	p, ix := mustResolveSetup(t)
	authority := samplePubkey(7)
	authorityRaw, _ := base58.Decode(authority)
	args := idl.Obj(idl.KV{Key: "authority", Val: idl.Str(authority)})
	programID := bytes.Repeat([]byte{9}, 32)

	in := Input{
		Program:     p,
		Instruction: ix,
		ProgramID:   programID,
		Args:        args,
		Known:       map[string][]byte{"authority": authorityRaw},
	}
	got, err := Resolve(context.Background(), in)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	vaultAddr, ok := got["vault"]
	if !ok || len(vaultAddr) != 32 {
		t.Fatalf("vault address = %v", vaultAddr)
	}
	if !bytes.Equal(got["authority"], authorityRaw) {
		t.Errorf("authority address not carried through unresolved (signer account has no pda/address)")
	}

	again, err := Resolve(context.Background(), in)
	if err != nil {
		t.Fatalf("Resolve (second run): %v", err)
	}
	if !bytes.Equal(got["vault"], again["vault"]) {
		t.Errorf("pda derivation is not deterministic: %x != %x", got["vault"], again["vault"])
	}
	if isOnCurve(vaultAddr) {
		t.Errorf("derived pda %x must be off the ed25519 curve", vaultAddr)
	}
}

func TestResolveUsesCallerSuppliedAuthority(t *testing.T) {
	p, ix := mustResolveSetup(t)
	authority := samplePubkey(3)
	authorityRaw, _ := base58.Decode(authority)
	args := idl.Obj(idl.KV{Key: "authority", Val: idl.Str(authority)})

	in := Input{
		Program:     p,
		Instruction: ix,
		ProgramID:   bytes.Repeat([]byte{1}, 32),
		Args:        args,
		Known:       map[string][]byte{"authority": authorityRaw},
	}
	got, err := Resolve(context.Background(), in)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !bytes.Equal(got["authority"], authorityRaw) {
		t.Errorf("caller-supplied authority address not preserved")
	}
}

const untypedSeedDoc = `{
  "instructions": {
    "init_vault": {
      "accounts": [
        {"name": "authority", "isSigner": true},
        {
          "name": "vault",
          "writable": true,
          "pda": {"seeds": [
            {"kind": "const", "value": [118,97,117,108,116]},
            {"kind": "arg", "path": "authority"}
          ]}
        }
      ],
      "args": [{"name": "authority", "type": "pubkey"}]
    }
  }
}`

// TestResolveInfersSeedTypeFromArgsWhenUnannotated exercises the typeAtPath
// fallback: the "authority" seed carries no `type`, so its wire encoding
// must be inferred by walking the instruction's hydrated args shape.
func TestResolveInfersSeedTypeFromArgsWhenUnannotated(t *testing.T) {
	p, err := parse.Parse([]byte(untypedSeedDoc), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := hydrate.Program(p, nil); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	ix := p.Instructions["init_vault"]

	authority := samplePubkey(5)
	authorityRaw, _ := base58.Decode(authority)
	args := idl.Obj(idl.KV{Key: "authority", Val: idl.Str(authority)})

	got, err := Resolve(context.Background(), Input{
		Program:     p,
		Instruction: ix,
		ProgramID:   bytes.Repeat([]byte{2}, 32),
		Args:        args,
		Known:       map[string][]byte{"authority": authorityRaw},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got["vault"]) != 32 {
		t.Fatalf("vault address = %v", got["vault"])
	}
}

const accountSeedDoc = `{
  "accounts": {
    "config": {"fields": [{"name": "owner", "type": "pubkey"}]}
  },
  "instructions": {
    "withdraw": {
      "accounts": [
        {"name": "config", "address": "%s"},
        {"name": "vault", "pda": {"seeds": [{"kind": "account", "account": "config", "path": "owner"}]}}
      ],
      "args": []
    }
  }
}`

// TestResolveDerivesPdaFromAccountSeed exercises the SeedAccount path: the
// vault's pda seeds off a field read out of another instruction account's
// fetched, decoded state.
func TestResolveDerivesPdaFromAccountSeed(t *testing.T) {
	configAddrRaw := bytes.Repeat([]byte{4}, 32)
	configAddr := base58.Encode(configAddrRaw)
	owner := samplePubkey(6)

	doc := fmt.Sprintf(accountSeedDoc, configAddr)
	p, err := parse.Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := hydrate.Program(p, nil); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	ix := p.Instructions["withdraw"]

	configData, err := codec.EncodeAccount(p.Accounts["config"], idl.Obj(idl.KV{Key: "owner", Val: idl.Str(owner)}))
	if err != nil {
		t.Fatalf("EncodeAccount: %v", err)
	}

	fetcher := func(ctx context.Context, address []byte) ([]byte, []byte, error) {
		if bytes.Equal(address, configAddrRaw) {
			return nil, configData, nil
		}
		return nil, nil, nil
	}

	got, err := Resolve(context.Background(), Input{
		Program:     p,
		Instruction: ix,
		ProgramID:   bytes.Repeat([]byte{8}, 32),
		Args:        idl.Obj(),
		Fetcher:     fetcher,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !bytes.Equal(got["config"], configAddrRaw) {
		t.Errorf("config address = %x, want %x", got["config"], configAddrRaw)
	}
	if len(got["vault"]) != 32 {
		t.Fatalf("vault address = %v", got["vault"])
	}
}

func TestResolveUnresolvableWithoutAuthorityAccountAddress(t *testing.T) {
	doc := `{
	  "instructions": {
	    "withdraw": {"accounts": [{"name": "authority", "isSigner": true}], "args": []}
	  }
	}`
	p, err := parse.Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := hydrate.Program(p, nil); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	ix := p.Instructions["withdraw"]

	_, err = Resolve(context.Background(), Input{Program: p, Instruction: ix, Args: idl.Obj()})
	if err == nil {
		t.Fatal("expected an unresolvable-addresses error")
	}
	kind, ok := idlerr.KindOf(err)
	if !ok || kind != idlerr.KindUnresolvableAddrs {
		t.Fatalf("error kind = %v, want UnresolvableAddresses", kind)
	}
}

func TestResolveRespectsCancellation(t *testing.T) {
	p, ix := mustResolveSetup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resolve(ctx, Input{Program: p, Instruction: ix, Args: idl.Obj(idl.KV{Key: "authority", Val: idl.Str(samplePubkey(1))})})
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
	kind, ok := idlerr.KindOf(err)
	if !ok || kind != idlerr.KindCancelled {
		t.Fatalf("error kind = %v, want Cancelled", kind)
	}
}
