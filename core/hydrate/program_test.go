package hydrate

import (
	"testing"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/parse"
)

const sampleDoc = `{
  "types": {
    "Side": {"kind": "enum", "variants": ["Buy", "Sell"]}
  },
  "accounts": {
    "Order": {
      "discriminator": [1,2,3,4],
      "fields": [
        {"name": "owner", "type": "pubkey"},
        {"name": "side", "type": "Side"},
        {"name": "amounts", "type": ["u64", 3]}
      ]
    }
  },
  "instructions": {
    "place_order": {
      "accounts": [{"name": "owner", "isSigner": true}],
      "args": [
        {"name": "side", "type": "Side"},
        {"name": "size", "type": "u64"}
      ]
    }
  },
  "events": {
    "OrderPlaced": {"fields": [{"name": "size", "type": "u64"}]}
  }
}`

func mustParse(t *testing.T) *idl.Program {
	t.Helper()
	p, err := parse.Parse([]byte(sampleDoc), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return p
}

func TestProgramHydratesAccountsInstructionsEvents(t *testing.T) {
	p := mustParse(t)
	if err := Program(p, nil); err != nil {
		t.Fatalf("Program: %v", err)
	}

	order := p.Accounts["Order"]
	if order.ContentTypeFull == nil {
		t.Fatal("Order.ContentTypeFull not populated")
	}
	if order.ContentTypeFull.Kind != idl.FullStruct {
		t.Fatalf("Order content kind = %v, want struct", order.ContentTypeFull.Kind)
	}
	fields := order.ContentTypeFull.StructFields.Named
	if len(fields) != 3 {
		t.Fatalf("field count = %d, want 3", len(fields))
	}
	side := fields[1].Type.(*idl.TypeFull)
	if side.Kind != idl.FullTypedef || side.TypedefName != "Side" {
		t.Fatalf("side field = %+v, want Typedef(Side)", side)
	}
	if side.Deref().Kind != idl.FullEnum {
		t.Fatalf("Side deref kind = %v, want enum", side.Deref().Kind)
	}
	amounts := fields[2].Type.(*idl.TypeFull)
	if amounts.Kind != idl.FullArray || amounts.ArrayLength != 3 {
		t.Fatalf("amounts field = %+v, want array[3]", amounts)
	}

	ix := p.Instructions["place_order"]
	if ix.ArgsTypeFull.Shape != idl.FieldsNamed || len(ix.ArgsTypeFull.Named) != 2 {
		t.Fatalf("place_order args = %+v", ix.ArgsTypeFull)
	}

	ev := p.Events["OrderPlaced"]
	if ev.ContentTypeFull == nil || ev.ContentTypeFull.Kind != idl.FullStruct {
		t.Fatalf("OrderPlaced content = %+v", ev.ContentTypeFull)
	}
}

func TestProgramRejectsGenericArityMismatch(t *testing.T) {
	doc := `{
	  "types": {"Wrapper": {"generics": ["T"], "kind": "struct", "fields": [{"name": "inner", "type": {"defined": {"name": "T"}}}]}},
	  "accounts": {"Bad": {"fields": [{"name": "w", "type": "Wrapper"}]}}
	}`
	p, err := parse.Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Program(p, nil); err == nil {
		t.Fatal("expected hydration error for unsatisfied generic arity")
	}
}
