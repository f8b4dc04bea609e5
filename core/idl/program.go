package idl

// Metadata carries a program's optional descriptive fields (§3). Every
// field is optional and round-trips opaquely even when a given dialect
// does not understand one of them (see SPEC_FULL.md, supplemented feature
// 5) - metadata unknown-key tolerance is deliberately looser than the
// parser's strict handling of unknown *structural* keys.
type Metadata struct {
	Address     *string
	Name        *string
	Description *string
	Docs        []string
	Version     *string
	Spec        *string
}

// Program is the full parsed model (§3/C8): named maps of typedefs,
// accounts, instructions, events, and errors, plus metadata. Names are
// unique within their kind. Program is constructed once by the parser (or
// built programmatically); after that, the only in-place changes are
// hydrate.Program filling in each entity's ContentTypeFull/ArgsTypeFull and
// GuessError caching its code index. Every entity it holds is shared by
// identity with anything that keeps a reference to it.
type Program struct {
	Metadata     Metadata
	Typedefs     map[string]*Typedef
	Accounts     map[string]*Account
	Instructions map[string]*Instruction
	Events       map[string]*Event
	Errors       map[string]*ProgramError

	// TypedefOrder etc. preserve declaration order for exporters that emit
	// arrays rather than objects (§4.6); parsers populate these alongside
	// the maps above.
	TypedefOrder     []string
	AccountOrder     []string
	InstructionOrder []string
	EventOrder       []string
	ErrorOrder       []string

	errorsByCode map[int]*ProgramError
}

// NewProgram returns an empty Program ready to be populated by a parser.
func NewProgram() *Program {
	return &Program{
		Typedefs:     map[string]*Typedef{},
		Accounts:     map[string]*Account{},
		Instructions: map[string]*Instruction{},
		Events:       map[string]*Event{},
		Errors:       map[string]*ProgramError{},
	}
}

// AddError inserts an error entry and keeps it addressable by code,
// preserving Program's no-mutation-after-construction contract: callers
// must finish calling AddError for every error before calling GuessError.
func (p *Program) AddError(name string, e *ProgramError) {
	p.Errors[name] = e
	p.ErrorOrder = append(p.ErrorOrder, name)
}

// buildErrorIndex lazily builds the code->error index the first time
// GuessError needs it (SPEC_FULL.md supplemented feature 4).
func (p *Program) buildErrorIndex() {
	if p.errorsByCode != nil {
		return
	}
	idx := make(map[int]*ProgramError, len(p.Errors))
	for _, name := range p.ErrorOrder {
		e := p.Errors[name]
		idx[e.Code] = e
	}
	p.errorsByCode = idx
}

// GuessError looks up the declared error with the given code in O(1).
func (p *Program) GuessError(code int) (*ProgramError, bool) {
	p.buildErrorIndex()
	e, ok := p.errorsByCode[code]
	return e, ok
}

// AccountCandidates returns every declared account whose discriminator is
// a byte-prefix of data, in declaration order - the candidate set
// codec.GuessAccount (SPEC_FULL.md supplemented feature 2) tries in turn.
func (p *Program) AccountCandidates(data []byte) []*Account {
	var out []*Account
	for _, name := range p.AccountOrder {
		a := p.Accounts[name]
		if hasPrefix(data, a.Discriminator) {
			out = append(out, a)
		}
	}
	return out
}

func hasPrefix(data, prefix []byte) bool {
	if len(data) < len(prefix) {
		return false
	}
	for i, b := range prefix {
		if data[i] != b {
			return false
		}
	}
	return true
}
