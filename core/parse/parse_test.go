package parse

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
)

func mustParse(t *testing.T, doc string) *idl.Program {
	t.Helper()
	p, err := Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return p
}

// humanAccountDoc and legacyAccountDoc describe the same single-account
// program (mirroring the S1 scenario's shape) in the "human" object-map
// dialect and the array-of-entries dialect respectively.
const humanAccountDoc = `{
  "accounts": {
    "MyAccount": {
      "discriminator": [4,3,2,1],
      "fields": [
        {"name": "prefix", "type": "string"},
        {"name": "info", "type": "u32"},
        {"name": "postfix", "type": "u8"}
      ]
    }
  }
}`

const legacyAccountDoc = `{
  "accounts": [
    {
      "name": "MyAccount",
      "discriminator": [4,3,2,1],
      "type": {
        "kind": "struct",
        "fields": [
          {"name": "prefix", "type": {"kind": "primitive", "name": "string"}},
          {"name": "info", "type": {"kind": "primitive", "name": "u32"}},
          {"name": "postfix", "type": {"kind": "primitive", "name": "u8"}}
        ]
      }
    }
  ]
}`

func fieldNames(t *testing.T, p *idl.Program) []string {
	t.Helper()
	acc := p.Accounts["MyAccount"]
	if acc == nil {
		t.Fatal("MyAccount not found")
	}
	if acc.ContentTypeFlat.Kind != idl.FlatStruct {
		t.Fatalf("expected struct, got %v", acc.ContentTypeFlat.Kind)
	}
	names := make([]string, len(acc.ContentTypeFlat.StructFields.Named))
	for i, f := range acc.ContentTypeFlat.StructFields.Named {
		names[i] = f.Name
	}
	return names
}

func TestParseDialectsAgree(t *testing.T) {
	human := mustParse(t, humanAccountDoc)
	legacy := mustParse(t, legacyAccountDoc)

	wantNames := []string{"prefix", "info", "postfix"}
	if diff := cmp.Diff(wantNames, fieldNames(t, human)); diff != "" {
		t.Errorf("human dialect field names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantNames, fieldNames(t, legacy)); diff != "" {
		t.Errorf("legacy dialect field names (-want +got):\n%s", diff)
	}

	if !bytes.Equal(human.Accounts["MyAccount"].Discriminator, []byte{4, 3, 2, 1}) {
		t.Errorf("human discriminator = %x", human.Accounts["MyAccount"].Discriminator)
	}
	if !bytes.Equal(legacy.Accounts["MyAccount"].Discriminator, []byte{4, 3, 2, 1}) {
		t.Errorf("legacy discriminator = %x", legacy.Accounts["MyAccount"].Discriminator)
	}
}

func TestParseDefaultDiscriminator(t *testing.T) {
	p := mustParse(t, `{"accounts": {"Vault": {"fields": [{"name": "amount", "type": "u64"}]}}}`)
	got := p.Accounts["Vault"].Discriminator
	want := idl.DefaultDiscriminator(idl.TagAccount, "Vault")
	if !bytes.Equal(got, want) {
		t.Errorf("default discriminator = %x, want %x", got, want)
	}
}

func TestParseEnumShorthandVariants(t *testing.T) {
	doc := `{
      "types": {
        "Status": {"kind": "enum", "variants": ["Active", "Paused", {"name": "Closed", "code": 9}]}
      }
    }`
	p := mustParse(t, doc)
	td := p.Typedefs["Status"]
	if td == nil || td.TypeFlat.Kind != idl.FlatEnum {
		t.Fatalf("expected Status enum typedef, got %+v", td)
	}
	variants := td.TypeFlat.EnumVariants
	if len(variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(variants))
	}
	if variants[0].Name != "Active" || variants[0].Code != nil {
		t.Errorf("variant 0 = %+v", variants[0])
	}
	if variants[2].Name != "Closed" || variants[2].Code == nil || *variants[2].Code != 9 {
		t.Errorf("variant 2 = %+v", variants[2])
	}
}

func TestParseArrayAndVecShorthand(t *testing.T) {
	doc := `{
      "types": {
        "Thing": {"kind": "struct", "fields": [
          {"name": "fixed", "type": ["u8", 3]},
          {"name": "list", "type": ["i16"]}
        ]}
      }
    }`
	p := mustParse(t, doc)
	fields := p.Typedefs["Thing"].TypeFlat.StructFields.Named
	fixed := fields[0].Type.(*idl.TypeFlat)
	if fixed.Kind != idl.FlatArray || fixed.ArrayLength.ConstLiteral != 3 {
		t.Errorf("fixed = %+v", fixed)
	}
	list := fields[1].Type.(*idl.TypeFlat)
	if list.Kind != idl.FlatVec {
		t.Errorf("list = %+v", list)
	}
}

func TestParseInstructionPdaSeeds(t *testing.T) {
	doc := `{
      "instructions": {
        "initVault": {
          "accounts": [
            {"name": "authority", "isSigner": true, "isMut": true},
            {
              "name": "vault",
              "writable": true,
              "pda": {
                "seeds": [
                  {"kind": "const", "value": [118, 97, 117, 108, 116]},
                  {"path": "authority"}
                ]
              }
            }
          ],
          "args": [{"name": "bump", "type": "u8"}]
        }
      }
    }`
	p := mustParse(t, doc)
	ix := p.Instructions["initVault"]
	if ix == nil {
		t.Fatal("initVault not found")
	}
	if !ix.Accounts[0].Signer || !ix.Accounts[0].Writable {
		t.Errorf("authority flags = %+v", ix.Accounts[0])
	}
	vault := ix.Accounts[1]
	if vault.Pda == nil || len(vault.Pda.Seeds) != 2 {
		t.Fatalf("vault pda = %+v", vault.Pda)
	}
	if vault.Pda.Seeds[0].Kind != idl.SeedConst {
		t.Errorf("seed 0 kind = %v", vault.Pda.Seeds[0].Kind)
	}
	if vault.Pda.Seeds[1].Kind != idl.SeedArg || vault.Pda.Seeds[1].ArgPath.String() != "authority" {
		t.Errorf("seed 1 = %+v", vault.Pda.Seeds[1])
	}
}

func TestParseMetadataFallback(t *testing.T) {
	p := mustParse(t, `{"name": "my_program", "version": "1.2.3", "metadata": {"address": "11111111111111111111111111111111"}}`)
	if p.Metadata.Name == nil || *p.Metadata.Name != "my_program" {
		t.Errorf("metadata.name = %v", p.Metadata.Name)
	}
	if p.Metadata.Version == nil || *p.Metadata.Version != "1.2.3" {
		t.Errorf("metadata.version = %v", p.Metadata.Version)
	}
	if p.Metadata.Address == nil {
		t.Errorf("metadata.address not populated from metadata object")
	}
}

func TestParseMalformedYieldsParseFailure(t *testing.T) {
	_, err := Parse([]byte(`{"accounts": {"Bad": {"fields": [{"name": "a", "type": "u8"}, {"type": "u8"}]}}}`), nil)
	if err == nil {
		t.Fatal("expected error for field missing name")
	}
}
