// Package asm implements the minimal textual assembly surface this module
// uses to exercise the reordering pass end to end: a line-oriented,
// per-function syntax for stackless three-address bytecode, modeled on the
// struct-tag participle grammar of the Kanso contract language but reshaped
// for a flat, offset-indexed instruction list instead of nested statements
// and expressions.
//
// The surface deliberately has no types beyond "is this a reference, is it
// mutable": no generics, no structs, no standard library, no module system.
// Lowering (type checking, earlier optimization passes, codegen) is out of
// scope (see SPEC_FULL.md's Non-goals) — this package exists only to read
// and write the one fact the reordering pass needs.
package asm

import "github.com/alecthomas/participle/v2/lexer"

// File is the parse result of one assembly source file: a flat list of
// function declarations.
type File struct {
	Functions []*FunctionDecl `@@*`
}

// FunctionDecl is one function's signature, locals, and instruction list.
type FunctionDecl struct {
	Native bool            `[ @"native" ]`
	Name   string          `"fn" @Ident "("`
	Params []*ParamDecl    `[ @@ { "," @@ } ] ")"`
	Locals *LocalsDecl     `"{" @@?`
	Instrs []*InstrDecl    `@@* "}"`
}

// ParamDecl names one temporary slot and its declared type. Reused verbatim
// for local declarations: both just bind a Tmp to a Type.
type ParamDecl struct {
	Name string    `@Tmp ":"`
	Type *TypeDecl `@@`
}

// LocalsDecl declares the temporaries that exist beyond the parameter list
// (their numbering continues from the parameters), one `locals:` clause per
// function.
type LocalsDecl struct {
	Decls []*ParamDecl `"locals" ":" @@ { "," @@ } ";"`
}

// TypeDecl is either a named base type or a (possibly mutable) reference to
// one.
type TypeDecl struct {
	Ref  *RefTypeDecl `  @@`
	Name string       `| @Ident`
}

// RefTypeDecl is `&T` or `&mut T`.
type RefTypeDecl struct {
	Mut    bool      `"&" [ @"mut" ]`
	Target *TypeDecl `@@`
}

// InstrDecl is one instruction, disambiguated by its leading token: Label
// and the keyword-led forms are unambiguous on the first token; Call and
// Assign both start with an optional/required Tmp and are told apart by
// what follows the "=" (an Ident naming an operation, vs a bare Tmp).
type InstrDecl struct {
	Label  *LabelDecl  `  @@`
	Branch *BranchDecl `| @@`
	Jump   *JumpDecl   `| @@`
	Return *ReturnDecl `| @@`
	Abort  *AbortDecl  `| @@`
	Spec   *SpecDecl   `| @@`
	Call   *CallDecl   `| @@`
	Assign *AssignDecl `| @@`
}

// LabelDecl marks a basic block entry point, e.g. "L0:". Pos is populated by
// participle automatically (a field named exactly Pos needs no struct tag)
// and is what label-validation diagnostics point at.
type LabelDecl struct {
	Pos  lexer.Position
	Name string `@Label ":"`
}

// BranchDecl is "branch <cond> <true> <false>;".
type BranchDecl struct {
	Pos      lexer.Position
	Cond     string `"branch" @Tmp`
	TrueLbl  string `@Label`
	FalseLbl string `@Label ";"`
}

// JumpDecl is "jump <target>;".
type JumpDecl struct {
	Pos    lexer.Position
	Target string `"jump" @Label ";"`
}

// ReturnDecl is "return [<tmp> {, <tmp>}];".
type ReturnDecl struct {
	Srcs []string `"return" [ @Tmp { "," @Tmp } ] ";"`
}

// AbortDecl is "abort <tmp>;".
type AbortDecl struct {
	Code string `"abort" @Tmp ";"`
}

// SpecDecl is an opaque specification-only marker; its presence forces the
// whole function to pass through the reordering pass untouched.
type SpecDecl struct {
	Marker string `@"spec" ";"`
}

// CallDecl is "[<dest> {, <dest>} =] <op>(<src> {, <src>}) [opaque] [!];".
// "!" marks the operation abortable; "opaque" marks a multi-result call this
// pass must treat as opaque (forces its whole block to pass through).
type CallDecl struct {
	Dests     []string `[ @Tmp { "," @Tmp } "=" ]`
	Op        string   `@Ident "("`
	Sources   []string `[ @Tmp { "," @Tmp } ] ")"`
	Opaque    bool     `[ @"opaque" ]`
	Abortable bool     `[ @"!" ] ";"`
}

// AssignDecl is "<dest> = <src>;".
type AssignDecl struct {
	Dest string `@Tmp "="`
	Src  string `@Tmp ";"`
}
