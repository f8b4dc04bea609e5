package idl

// AccountMeta is one resolved account slot's wire-level metadata: the
// address plus the writable/signer flags an instruction's account list
// actually gets sent to the network with (SPEC_FULL.md supplemented
// feature 3 - the original's "compile"/"decompile" split that spec.md
// folds into a plain "encode"/"decode").
type AccountMeta struct {
	Name     string
	Address  []byte
	Writable bool
	Signer   bool
}

// Instruction is the callable entity (§3): a discriminator, an
// ordered list of accounts (some of which may need PDA resolution), and an
// args body described in both its flat and hydrated-full form.
type Instruction struct {
	Name             string
	Docs             []string
	Discriminator    []byte
	Accounts         []InstructionAccount
	ArgsTypeFlat     Fields
	ArgsTypeFull     Fields // populated by the hydrator
}

// InstructionAccount is one declared account slot of an instruction (§3).
// At most one of Address or Pda is set; neither set means the caller must
// supply the address directly.
type InstructionAccount struct {
	Name     string
	Docs     []string
	Writable bool
	Signer   bool
	Optional bool
	Address  []byte // constant address, when declared
	Pda      *Pda
}

// Pda describes how to derive a program-derived address (§3, §4.7, §4.9
// glossary): hash Seeds (and, if Program is set, that blob's bytes as the
// deriving program id instead of the instruction's own program) together
// with a bump byte, iterated from 255 downward, until the result lands off
// the ed25519 curve.
type Pda struct {
	Seeds   []SeedBlob
	Program *SeedBlob
}

// SeedBlobKind tags the variant of a SeedBlob.
type SeedBlobKind int

const (
	SeedConst SeedBlobKind = iota
	SeedArg
	SeedAccount
)

// SeedBlob is one seed contributor of a Pda (§3). Resolution is lazy: the
// blob's Type (when absent) is inferred at resolve time from the payload
// path (for SeedArg) or the referenced account's content type (for
// SeedAccount), which is what allows forward references across
// accounts/args declared later in the same instruction.
type SeedBlob struct {
	Kind SeedBlobKind

	// SeedConst
	ConstValue *Value
	ConstType  *TypeFull // optional; inferred as bytes-as-given if nil

	// SeedArg
	ArgPath Path
	ArgType *TypeFull // optional

	// SeedAccount
	AccountPath    Path   // "" means "this already-resolved address' own bytes"
	AccountName    string // the instruction account whose address is read, and the declared account type decoded with; required (no inference when "")
	AccountType    *TypeFull
}
