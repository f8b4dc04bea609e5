package export

import (
	"bytes"
	"testing"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/parse"
)

const sampleDoc = `{
  "metadata": {"name": "vault_program", "version": "0.1.0"},
  "types": {
    "Status": {"kind": "enum", "variants": ["Active", {"name": "Closed", "code": 9}]}
  },
  "accounts": {
    "Vault": {
      "discriminator": [4,3,2,1],
      "fields": [
        {"name": "owner", "type": "pubkey"},
        {"name": "amount", "type": "u64"},
        {"name": "status", "type": "Status"},
        {"name": "tags", "type": ["u32", 2]}
      ]
    }
  },
  "instructions": {
    "init_vault": {
      "accounts": [
        {"name": "authority", "isSigner": true, "isMut": true},
        {
          "name": "vault",
          "writable": true,
          "pda": {"seeds": [{"kind": "const", "value": [118,97,117,108,116]}, {"path": "authority"}]}
        }
      ],
      "args": [{"name": "bump", "type": "u8"}]
    }
  },
  "errors": {
    "Unauthorized": {"code": 6000, "msg": "not authorized"}
  }
}`

func roundTrip(t *testing.T, flags Flags) (*idl.Program, *idl.Program) {
	t.Helper()
	original, err := parse.Parse([]byte(sampleDoc), nil)
	if err != nil {
		t.Fatalf("parse original: %v", err)
	}
	exported := Export(original, flags)
	jsonBytes, err := ToJSON(exported)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	reparsed, err := parse.Parse(jsonBytes, nil)
	if err != nil {
		t.Fatalf("re-parse exported doc: %v\n%s", err, jsonBytes)
	}
	return original, reparsed
}

func assertProgramsEquivalent(t *testing.T, original, reparsed *idl.Program) {
	t.Helper()
	if len(original.AccountOrder) != len(reparsed.AccountOrder) {
		t.Fatalf("account count = %d, want %d", len(reparsed.AccountOrder), len(original.AccountOrder))
	}
	vaultBefore := original.Accounts["Vault"]
	vaultAfter := reparsed.Accounts["Vault"]
	if vaultAfter == nil {
		t.Fatal("Vault account missing after round trip")
	}
	if !bytes.Equal(vaultBefore.Discriminator, vaultAfter.Discriminator) {
		t.Errorf("discriminator = %x, want %x", vaultAfter.Discriminator, vaultBefore.Discriminator)
	}
	if len(vaultBefore.ContentTypeFlat.StructFields.Named) != len(vaultAfter.ContentTypeFlat.StructFields.Named) {
		t.Fatalf("field count = %d, want %d",
			len(vaultAfter.ContentTypeFlat.StructFields.Named), len(vaultBefore.ContentTypeFlat.StructFields.Named))
	}
	for i, f := range vaultBefore.ContentTypeFlat.StructFields.Named {
		got := vaultAfter.ContentTypeFlat.StructFields.Named[i]
		if got.Name != f.Name {
			t.Errorf("field %d name = %q, want %q", i, got.Name, f.Name)
		}
		wantType := f.Type.(*idl.TypeFlat)
		gotType := got.Type.(*idl.TypeFlat)
		if gotType.Kind != wantType.Kind {
			t.Errorf("field %q kind = %v, want %v", f.Name, gotType.Kind, wantType.Kind)
		}
	}
	if len(original.ErrorOrder) != len(reparsed.ErrorOrder) {
		t.Errorf("error count = %d, want %d", len(reparsed.ErrorOrder), len(original.ErrorOrder))
	}
	if _, ok := reparsed.GuessError(6000); !ok {
		t.Errorf("error code 6000 missing after round trip")
	}
}

func TestRoundTripHuman(t *testing.T) {
	original, reparsed := roundTrip(t, Human())
	assertProgramsEquivalent(t, original, reparsed)
}

func TestRoundTripAnchor26(t *testing.T) {
	original, reparsed := roundTrip(t, Anchor26())
	assertProgramsEquivalent(t, original, reparsed)
}

func TestRoundTripAnchor30(t *testing.T) {
	original, reparsed := roundTrip(t, Anchor30())
	// Anchor30 camelCases instruction names; look the instruction up under
	// its exported spelling rather than asserting map-key equality.
	if _, ok := reparsed.Instructions["init_vault"]; !ok {
		if _, ok := reparsed.Instructions["initVault"]; !ok {
			t.Fatal("init_vault instruction missing after Anchor30 round trip")
		}
	}
	assertProgramsEquivalent(t, original, reparsed)
}

func TestExportPdaSeedsRoundTrip(t *testing.T) {
	_, reparsed := roundTrip(t, Human())
	ix, ok := reparsed.Instructions["init_vault"]
	if !ok {
		t.Fatal("init_vault missing")
	}
	vault := ix.Accounts[1]
	if vault.Pda == nil || len(vault.Pda.Seeds) != 2 {
		t.Fatalf("vault pda seeds = %+v", vault.Pda)
	}
	if vault.Pda.Seeds[0].Kind != idl.SeedConst {
		t.Errorf("seed 0 kind = %v", vault.Pda.Seeds[0].Kind)
	}
	if vault.Pda.Seeds[1].Kind != idl.SeedArg || vault.Pda.Seeds[1].ArgPath.String() != "authority" {
		t.Errorf("seed 1 = %+v", vault.Pda.Seeds[1])
	}
}
