package bytecode

// OpKind discriminates the call kinds the reordering pass treats specially.
// Every other call (arithmetic, user/stdlib function calls, ...) is
// OpGeneric and is told apart only by Name, which the pass never inspects.
type OpKind string

const (
	OpGeneric   OpKind = "generic"
	OpWriteRef  OpKind = "write_ref"
	OpReadRef   OpKind = "read_ref"
	OpFreezeRef OpKind = "freeze_ref"
	OpDrop      OpKind = "drop"
	OpBorrowLoc OpKind = "borrow_loc"
	OpPrepare   OpKind = "prepare"
)

// Operation is a call instruction's operation kind plus the flags the pass
// needs: whether it can abort at runtime, and (via Kind) whether it belongs
// to the reference-op set {WriteRef, ReadRef, FreezeRef, Drop, BorrowLoc,
// Prepare}.
type Operation struct {
	Kind      OpKind
	Name      string // opcode mnemonic, e.g. "add"; only meaningful for OpGeneric
	Abortable bool
}

func (op Operation) CanAbort() bool { return op.Abortable }

// PrepareOp is the operation tag of a synthesized Prepare pseudo-instruction.
var PrepareOp = Operation{Kind: OpPrepare, Name: "prepare"}
