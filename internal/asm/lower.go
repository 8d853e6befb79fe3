package asm

import (
	"fmt"
	"strconv"

	"moveorder/internal/bytecode"
	"moveorder/internal/diag"
)

// Lower converts a parsed File into the bytecode.Function values the
// reordering pass operates on. filename and source are only used to point
// label-validation diagnostics at the right place; they play no role in the
// lowering itself. Attribute ids are assigned sequentially within each
// function; the assembly surface has no use for them beyond Prepare
// synthesis copying one verbatim from the instruction it prepares.
func Lower(filename, source string, file *File) ([]*bytecode.Function, error) {
	fns := make([]*bytecode.Function, 0, len(file.Functions))
	for _, fd := range file.Functions {
		if err := validateLabels(fd, filename, source); err != nil {
			return nil, err
		}
		fn, err := lowerFunction(fd)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

// validateLabels checks that every label name a function declares is
// unique, and every branch/jump target names a label the function
// actually declares.
func validateLabels(fd *FunctionDecl, filename, source string) error {
	declared := map[string]bool{}
	for _, instr := range fd.Instrs {
		if instr.Label == nil {
			continue
		}
		if declared[instr.Label.Name] {
			return diag.ReportError(filename, source, diag.ErrorDuplicateLabel,
				instr.Label.Pos.Line, instr.Label.Pos.Column,
				fmt.Sprintf("label %s declared more than once in function %s", instr.Label.Name, fd.Name))
		}
		declared[instr.Label.Name] = true
	}
	for _, instr := range fd.Instrs {
		switch {
		case instr.Branch != nil:
			if !declared[instr.Branch.TrueLbl] {
				return diag.ReportError(filename, source, diag.ErrorUnknownLabel,
					instr.Branch.Pos.Line, instr.Branch.Pos.Column,
					fmt.Sprintf("branch target %s has no label declaration in function %s", instr.Branch.TrueLbl, fd.Name))
			}
			if !declared[instr.Branch.FalseLbl] {
				return diag.ReportError(filename, source, diag.ErrorUnknownLabel,
					instr.Branch.Pos.Line, instr.Branch.Pos.Column,
					fmt.Sprintf("branch target %s has no label declaration in function %s", instr.Branch.FalseLbl, fd.Name))
			}
		case instr.Jump != nil:
			if !declared[instr.Jump.Target] {
				return diag.ReportError(filename, source, diag.ErrorUnknownLabel,
					instr.Jump.Pos.Line, instr.Jump.Pos.Column,
					fmt.Sprintf("jump target %s has no label declaration in function %s", instr.Jump.Target, fd.Name))
			}
		}
	}
	return nil
}

func lowerFunction(fd *FunctionDecl) (*bytecode.Function, error) {
	locals := bytecode.MapLocalTypes{}
	for _, p := range fd.Params {
		tmp, err := parseTmp(p.Name)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fd.Name, err)
		}
		if isMutableRef(p.Type) {
			locals[tmp] = true
		}
	}
	if fd.Locals != nil {
		for _, p := range fd.Locals.Decls {
			tmp, err := parseTmp(p.Name)
			if err != nil {
				return nil, fmt.Errorf("function %s: %w", fd.Name, err)
			}
			if isMutableRef(p.Type) {
				locals[tmp] = true
			}
		}
	}

	var attr bytecode.AttrId
	nextAttr := func() bytecode.AttrId {
		attr++
		return attr - 1
	}

	code := make([]bytecode.Bytecode, 0, len(fd.Instrs))
	for _, instr := range fd.Instrs {
		lowered, err := lowerInstr(instr, nextAttr)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fd.Name, err)
		}
		code = append(code, lowered)
	}

	return &bytecode.Function{
		Name:   fd.Name,
		Native: fd.Native,
		Code:   code,
		Locals: locals,
	}, nil
}

func isMutableRef(t *TypeDecl) bool {
	return t != nil && t.Ref != nil && t.Ref.Mut
}

func lowerInstr(instr *InstrDecl, nextAttr func() bytecode.AttrId) (bytecode.Bytecode, error) {
	switch {
	case instr.Label != nil:
		id, err := parseLabel(instr.Label.Name)
		if err != nil {
			return nil, err
		}
		return &bytecode.Label{Attr: nextAttr(), ID: id}, nil

	case instr.Branch != nil:
		cond, err := parseTmp(instr.Branch.Cond)
		if err != nil {
			return nil, err
		}
		t, err := parseLabel(instr.Branch.TrueLbl)
		if err != nil {
			return nil, err
		}
		f, err := parseLabel(instr.Branch.FalseLbl)
		if err != nil {
			return nil, err
		}
		return &bytecode.Branch{Attr: nextAttr(), Cond: cond, TrueLbl: t, FalseLbl: f}, nil

	case instr.Jump != nil:
		target, err := parseLabel(instr.Jump.Target)
		if err != nil {
			return nil, err
		}
		return &bytecode.Jump{Attr: nextAttr(), Target: target}, nil

	case instr.Return != nil:
		srcs, err := parseTmps(instr.Return.Srcs)
		if err != nil {
			return nil, err
		}
		return &bytecode.Return{Attr: nextAttr(), Srcs: srcs}, nil

	case instr.Abort != nil:
		code, err := parseTmp(instr.Abort.Code)
		if err != nil {
			return nil, err
		}
		return &bytecode.Abort{Attr: nextAttr(), Code: code}, nil

	case instr.Spec != nil:
		return &bytecode.SpecBlock{Attr: nextAttr()}, nil

	case instr.Call != nil:
		dests, err := parseTmps(instr.Call.Dests)
		if err != nil {
			return nil, err
		}
		sources, err := parseTmps(instr.Call.Sources)
		if err != nil {
			return nil, err
		}
		return &bytecode.Call{
			Attr:              nextAttr(),
			D:                 dests,
			Op:                operationFor(instr.Call.Op, instr.Call.Abortable),
			S:                 sources,
			MultiReturnOpaque: instr.Call.Opaque,
		}, nil

	case instr.Assign != nil:
		dest, err := parseTmp(instr.Assign.Dest)
		if err != nil {
			return nil, err
		}
		src, err := parseTmp(instr.Assign.Src)
		if err != nil {
			return nil, err
		}
		return &bytecode.Assign{Attr: nextAttr(), Dest: dest, Src: src}, nil
	}
	return nil, fmt.Errorf("empty instruction")
}

// operationFor maps an assembly op mnemonic to the Operation the reordering
// pass keys its special-casing on. Any name outside this fixed set is an
// ordinary generic operation, reorderable like arithmetic or a user call.
func operationFor(name string, abortable bool) bytecode.Operation {
	kind := bytecode.OpGeneric
	switch name {
	case "write_ref":
		kind = bytecode.OpWriteRef
	case "read_ref":
		kind = bytecode.OpReadRef
	case "freeze_ref":
		kind = bytecode.OpFreezeRef
	case "drop":
		kind = bytecode.OpDrop
	case "borrow_loc":
		kind = bytecode.OpBorrowLoc
	}
	return bytecode.Operation{Kind: kind, Name: name, Abortable: abortable}
}

func parseTmps(names []string) ([]bytecode.Tmp, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]bytecode.Tmp, len(names))
	for i, n := range names {
		tmp, err := parseTmp(n)
		if err != nil {
			return nil, err
		}
		out[i] = tmp
	}
	return out, nil
}

func parseTmp(name string) (bytecode.Tmp, error) {
	n, err := strconv.ParseUint(name[1:], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("malformed temporary %q: %w", name, err)
	}
	return bytecode.Tmp(n), nil
}

func parseLabel(name string) (bytecode.LabelID, error) {
	n, err := strconv.ParseUint(name[1:], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed label %q: %w", name, err)
	}
	return bytecode.LabelID(n), nil
}
