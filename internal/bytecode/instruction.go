package bytecode

// Bytecode is one instruction of a function body. The reordering pass only
// ever needs the capabilities listed here; it never switches on concrete
// instruction types directly (see discriminator predicates below).
type Bytecode interface {
	AttrID() AttrId
	// Sources returns the instruction's source operands, in the positional
	// order the downstream stack VM expects them to be pushed.
	Sources() []Tmp
	Dests() []Tmp

	IsReturn() bool
	IsBranch() bool
	IsJump() bool
	IsLabel() bool
	IsAbort() bool
	IsAssign() bool
	IsSpecOnly() bool

	// AsCall exposes operation-kind detail when this instruction is a call.
	AsCall() (*Call, bool)
}

// Assign copies Src into Dest. Per the teacher's convention, a value that
// flows only through an Assign is considered "off the stack" afterward —
// this is why the Prepare-synthesis engine treats Assign-defined sources
// specially (spec.md §4.3 phase A).
type Assign struct {
	Attr AttrId
	Dest Tmp
	Src  Tmp
}

func (a *Assign) AttrID() AttrId      { return a.Attr }
func (a *Assign) Sources() []Tmp      { return []Tmp{a.Src} }
func (a *Assign) Dests() []Tmp        { return []Tmp{a.Dest} }
func (a *Assign) IsReturn() bool      { return false }
func (a *Assign) IsBranch() bool      { return false }
func (a *Assign) IsJump() bool        { return false }
func (a *Assign) IsLabel() bool       { return false }
func (a *Assign) IsAbort() bool       { return false }
func (a *Assign) IsAssign() bool      { return true }
func (a *Assign) IsSpecOnly() bool    { return false }
func (a *Assign) AsCall() (*Call, bool) { return nil, false }

// Return ends a function, producing zero or more result values.
type Return struct {
	Attr AttrId
	Srcs []Tmp
}

func (r *Return) AttrID() AttrId      { return r.Attr }
func (r *Return) Sources() []Tmp      { return r.Srcs }
func (r *Return) Dests() []Tmp        { return nil }
func (r *Return) IsReturn() bool      { return true }
func (r *Return) IsBranch() bool      { return false }
func (r *Return) IsJump() bool        { return false }
func (r *Return) IsLabel() bool       { return false }
func (r *Return) IsAbort() bool       { return false }
func (r *Return) IsAssign() bool      { return false }
func (r *Return) IsSpecOnly() bool    { return false }
func (r *Return) AsCall() (*Call, bool) { return nil, false }

// Branch conditionally jumps to one of two labels based on Cond.
type Branch struct {
	Attr            AttrId
	Cond            Tmp
	TrueLbl, FalseLbl LabelID
}

func (b *Branch) AttrID() AttrId      { return b.Attr }
func (b *Branch) Sources() []Tmp      { return []Tmp{b.Cond} }
func (b *Branch) Dests() []Tmp        { return nil }
func (b *Branch) IsReturn() bool      { return false }
func (b *Branch) IsBranch() bool      { return true }
func (b *Branch) IsJump() bool        { return false }
func (b *Branch) IsLabel() bool       { return false }
func (b *Branch) IsAbort() bool       { return false }
func (b *Branch) IsAssign() bool      { return false }
func (b *Branch) IsSpecOnly() bool    { return false }
func (b *Branch) AsCall() (*Call, bool) { return nil, false }

// Jump unconditionally transfers control to Target.
type Jump struct {
	Attr   AttrId
	Target LabelID
}

func (j *Jump) AttrID() AttrId      { return j.Attr }
func (j *Jump) Sources() []Tmp      { return nil }
func (j *Jump) Dests() []Tmp        { return nil }
func (j *Jump) IsReturn() bool      { return false }
func (j *Jump) IsBranch() bool      { return false }
func (j *Jump) IsJump() bool        { return true }
func (j *Jump) IsLabel() bool       { return false }
func (j *Jump) IsAbort() bool       { return false }
func (j *Jump) IsAssign() bool      { return false }
func (j *Jump) IsSpecOnly() bool    { return false }
func (j *Jump) AsCall() (*Call, bool) { return nil, false }

// Label marks a basic block entry point. It has no operands.
type Label struct {
	Attr AttrId
	ID   LabelID
}

func (l *Label) AttrID() AttrId      { return l.Attr }
func (l *Label) Sources() []Tmp      { return nil }
func (l *Label) Dests() []Tmp        { return nil }
func (l *Label) IsReturn() bool      { return false }
func (l *Label) IsBranch() bool      { return false }
func (l *Label) IsJump() bool        { return false }
func (l *Label) IsLabel() bool       { return true }
func (l *Label) IsAbort() bool       { return false }
func (l *Label) IsAssign() bool      { return false }
func (l *Label) IsSpecOnly() bool    { return false }
func (l *Label) AsCall() (*Call, bool) { return nil, false }

// Abort terminates execution with an error code.
type Abort struct {
	Attr AttrId
	Code Tmp
}

func (a *Abort) AttrID() AttrId      { return a.Attr }
func (a *Abort) Sources() []Tmp      { return []Tmp{a.Code} }
func (a *Abort) Dests() []Tmp        { return nil }
func (a *Abort) IsReturn() bool      { return false }
func (a *Abort) IsBranch() bool      { return false }
func (a *Abort) IsJump() bool        { return false }
func (a *Abort) IsLabel() bool       { return false }
func (a *Abort) IsAbort() bool       { return true }
func (a *Abort) IsAssign() bool      { return false }
func (a *Abort) IsSpecOnly() bool    { return false }
func (a *Abort) AsCall() (*Call, bool) { return nil, false }

// Call is the only instruction kind whose semantics the pass cares about
// beyond plain use/def: its Operation decides reorderability (§4.4d),
// reference-argument aliasing (§4.4c), and whether it opts the whole block
// out of reordering (a multi-return opaque call, §4.1).
type Call struct {
	Attr   AttrId
	D      []Tmp
	Op     Operation
	S      []Tmp
	// MultiReturnOpaque marks a call whose multiple results and semantics
	// are opaque to this pass (e.g. an inlined external call); such a call
	// forces its whole block to pass through untouched.
	MultiReturnOpaque bool
}

func (c *Call) AttrID() AttrId        { return c.Attr }
func (c *Call) Sources() []Tmp        { return c.S }
func (c *Call) Dests() []Tmp          { return c.D }
func (c *Call) IsReturn() bool        { return false }
func (c *Call) IsBranch() bool        { return false }
func (c *Call) IsJump() bool          { return false }
func (c *Call) IsLabel() bool         { return false }
func (c *Call) IsAbort() bool         { return false }
func (c *Call) IsAssign() bool        { return false }
func (c *Call) IsSpecOnly() bool      { return false }
func (c *Call) AsCall() (*Call, bool) { return c, true }

// SpecBlock is an opaque specification-only instruction (e.g. an inlined
// `spec { ... }` block). Its presence in a block forces a pass-through.
type SpecBlock struct {
	Attr AttrId
}

func (s *SpecBlock) AttrID() AttrId      { return s.Attr }
func (s *SpecBlock) Sources() []Tmp      { return nil }
func (s *SpecBlock) Dests() []Tmp        { return nil }
func (s *SpecBlock) IsReturn() bool      { return false }
func (s *SpecBlock) IsBranch() bool      { return false }
func (s *SpecBlock) IsJump() bool        { return false }
func (s *SpecBlock) IsLabel() bool       { return false }
func (s *SpecBlock) IsAbort() bool       { return false }
func (s *SpecBlock) IsAssign() bool      { return false }
func (s *SpecBlock) IsSpecOnly() bool    { return true }
func (s *SpecBlock) AsCall() (*Call, bool) { return nil, false }

// NewPrepare constructs the synthesized single-source pseudo-instruction
// described in spec.md §6: empty dests, operation Prepare, one source, the
// preparing use's attribute id copied verbatim.
func NewPrepare(attr AttrId, tmp Tmp) *Call {
	return &Call{
		Attr: attr,
		D:    nil,
		Op:   PrepareOp,
		S:    []Tmp{tmp},
	}
}

// IsRelativelyNonReorderable reports whether instr's relative order with
// other such instructions is fixed by semantics: control flow, aborts, and
// the reference/drop operations that must not be reordered past each other.
func IsRelativelyNonReorderable(instr Bytecode) bool {
	if instr.IsReturn() || instr.IsBranch() || instr.IsJump() || instr.IsLabel() || instr.IsAbort() {
		return true
	}
	if call, ok := instr.AsCall(); ok {
		if call.Op.CanAbort() {
			return true
		}
		switch call.Op.Kind {
		case OpWriteRef, OpReadRef, OpFreezeRef, OpDrop:
			return true
		}
	}
	return false
}

// IsRefArgProducer reports whether instr produces a reference argument that
// aliases one of its sources: a FreezeRef call, or a BorrowLoc call whose
// destination is declared a mutable reference.
func IsRefArgProducer(instr Bytecode, locals LocalTypes) bool {
	call, ok := instr.AsCall()
	if !ok {
		return false
	}
	switch call.Op.Kind {
	case OpFreezeRef:
		return true
	case OpBorrowLoc:
		dests := call.Dests()
		return len(dests) > 0 && locals.IsMutableRef(dests[0])
	}
	return false
}
