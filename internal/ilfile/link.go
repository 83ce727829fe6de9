package ilfile

import (
	"errors"
	"fmt"

	"kilc/internal/il"
)

var (
	ErrUnknownReference = errors.New("unknown reference")
	ErrDuplicate        = errors.New("duplicate definition")
	ErrSchema           = errors.New("unsupported schema")
)

// Program is a linked graph ready to scan.
type Program struct {
	Root  *il.Unit
	Units []*il.Unit
}

// Unit returns the unit with id.
func (p *Program) Unit(id string) *il.Unit {
	for _, u := range p.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

type linker struct {
	units   map[string]*il.Unit
	types   map[string]*il.TypeDescriptor
	methods map[string]*il.MethodDescriptor
}

// Link resolves every id reference of f into descriptor pointers.
func Link(f *File) (*Program, error) {
	if f.Schema != 0 && f.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrSchema, f.Schema, SchemaVersion)
	}
	if len(f.Units) == 0 {
		return nil, fmt.Errorf("%w: graph has no units", ErrUnknownReference)
	}
	l := &linker{
		units:   make(map[string]*il.Unit, len(f.Units)),
		types:   make(map[string]*il.TypeDescriptor),
		methods: make(map[string]*il.MethodDescriptor),
	}
	prog := &Program{Units: make([]*il.Unit, 0, len(f.Units))}

	// первый проход: объявления
	for _, fu := range f.Units {
		if _, dup := l.units[fu.ID]; dup {
			return nil, fmt.Errorf("unit %s: %w", fu.ID, ErrDuplicate)
		}
		u := il.NewUnit(fu.ID)
		l.units[fu.ID] = u
		prog.Units = append(prog.Units, u)
		for _, ft := range fu.Types {
			if err := l.declareType(u, ft); err != nil {
				return nil, err
			}
		}
	}

	// второй проход: ссылки
	for i, fu := range f.Units {
		u := prog.Units[i]
		for _, dep := range fu.Dependencies {
			du, ok := l.units[dep]
			if !ok {
				return nil, fmt.Errorf("unit %s: dependency %s: %w", u.ID, dep, ErrUnknownReference)
			}
			u.AddDependency(du)
		}
		for j, ft := range fu.Types {
			if err := l.resolveType(u.Types[j], ft); err != nil {
				return nil, fmt.Errorf("unit %s: %w", u.ID, err)
			}
		}
		for _, fb := range fu.Blocks {
			if err := l.linkBlock(u, fb); err != nil {
				return nil, fmt.Errorf("unit %s: %w", u.ID, err)
			}
		}
	}

	root := f.Root
	if root == "" {
		root = f.Units[len(f.Units)-1].ID
	}
	if prog.Root = l.units[root]; prog.Root == nil {
		return nil, fmt.Errorf("root unit %s: %w", root, ErrUnknownReference)
	}
	return prog, nil
}

func (l *linker) declareType(u *il.Unit, ft Type) error {
	if ft.ID == "" {
		return fmt.Errorf("unit %s: type without id: %w", u.ID, ErrUnknownReference)
	}
	if _, dup := l.types[ft.ID]; dup {
		return fmt.Errorf("type %s: %w", ft.ID, ErrDuplicate)
	}
	special, ok := il.ParseSpecialKind(ft.Special)
	if !ok {
		return fmt.Errorf("type %s: unknown special kind %q", ft.ID, ft.Special)
	}
	t := u.AddType(&il.TypeDescriptor{
		ID:          ft.ID,
		FullName:    ft.Name,
		HeapSize:    ft.HeapSize,
		StackSize:   ft.StackSize,
		IsValueType: ft.ValueType,
		IsPointer:   ft.Pointer,
		Opaque:      ft.Opaque,
		Special:     special,
	})
	l.types[ft.ID] = t
	for _, fm := range ft.Methods {
		if _, dup := l.methods[fm.ID]; dup {
			return fmt.Errorf("method %s: %w", fm.ID, ErrDuplicate)
		}
		l.methods[fm.ID] = t.AddMethod(&il.MethodDescriptor{
			ID:         fm.ID,
			Signature:  fm.Signature,
			IDValue:    fm.IDValue,
			IsStatic:   fm.Static,
			IsAbstract: fm.Abstract,
			Priority:   fm.Priority,
		})
	}
	return nil
}

func (l *linker) resolveType(t *il.TypeDescriptor, ft Type) error {
	if ft.Base != "" {
		base, ok := l.types[ft.Base]
		if !ok {
			return fmt.Errorf("type %s: base %s: %w", t.ID, ft.Base, ErrUnknownReference)
		}
		t.Base = base
	}
	for _, ff := range ft.Fields {
		typ, ok := l.types[ff.Type]
		if !ok {
			return fmt.Errorf("field %s.%s: type %q: %w", t.ID, ff.Name, ff.Type, ErrUnknownReference)
		}
		t.AddField(&il.FieldDescriptor{
			ID:       ff.ID,
			Name:     ff.Name,
			IDValue:  ff.IDValue,
			IsStatic: ff.Static,
			Offset:   ff.Offset,
			Type:     typ,
		})
	}
	return nil
}

var instrKinds = map[string]il.InstrKind{
	"":             il.KindNormal,
	"method-start": il.KindMethodStart,
	"method-end":   il.KindMethodEnd,
	"stack-switch": il.KindStackSwitch,
}

func (l *linker) linkBlock(u *il.Unit, fb Block) error {
	m, ok := l.methods[fb.Method]
	if !ok {
		return fmt.Errorf("block of method %s: %w", fb.Method, ErrUnknownReference)
	}
	b := &il.Block{Method: m, PlugPath: fb.Plug, Instrs: make([]il.Instruction, 0, len(fb.Instrs))}
	for i, fi := range fb.Instrs {
		kind, ok := instrKinds[fi.Kind]
		if !ok {
			return fmt.Errorf("%s instruction %d: unknown kind %q", m.ID, i, fi.Kind)
		}
		ins := il.Instruction{
			Kind:          kind,
			Offset:        fi.Offset,
			LabelRequired: fi.Label,
			Operand:       il.Operand{Int: fi.Int, Text: fi.Text, Ref: fi.Ref},
		}
		if kind == il.KindNormal {
			op, err := il.ParseOpcode(fi.Op)
			if err != nil {
				return fmt.Errorf("%s instruction %d: %w", m.ID, i, err)
			}
			ins.Op = op
		}
		b.Instrs = append(b.Instrs, ins)
	}
	return u.AddBlock(b)
}
