package backend

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"kilc/internal/asm"
	"kilc/internal/il"
)

// Handler converts one IL instruction for a target.
type Handler interface {
	Convert(st *State, ins *il.Instruction) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(st *State, ins *il.Instruction) error

func (f HandlerFunc) Convert(st *State, ins *il.Instruction) error { return f(st, ins) }

// Factory populates a Builder with a target's handlers and op constructors.
type Factory func(b *Builder)

// Registry maps target selectors to factories. A target package registers
// itself explicitly, e.g. x86.Register(reg).
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register wires a target under selector. Registering the same selector
// twice is a programming error and panics.
func (r *Registry) Register(selector string, f Factory) {
	if selector == "" {
		panic("backend: empty target selector")
	}
	if f == nil {
		panic("backend: factory must be non-nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[selector]; exists {
		panic(fmt.Sprintf("backend: target %s already registered", selector))
	}
	r.factories[selector] = f
}

// Selectors returns the registered selectors, sorted.
func (r *Registry) Selectors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for s := range r.factories {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Load builds the target for selector. Every failure is a *ConfigurationError.
func (r *Registry) Load(selector string) (*Target, error) {
	r.mu.RLock()
	factory, ok := r.factories[selector]
	r.mu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{
			Kind:     ConfigUnknownTarget,
			Selector: selector,
			Detail:   "supported targets: " + strings.Join(r.Selectors(), ", "),
		}
	}

	b := &Builder{selector: selector, handlers: make(map[il.Opcode]Handler)}
	factory(b)
	if b.err != nil {
		return nil, b.err
	}
	var missing []string
	if b.methodStart == nil {
		missing = append(missing, il.KindMethodStart.String())
	}
	if b.methodEnd == nil {
		missing = append(missing, il.KindMethodEnd.String())
	}
	if b.stackSwitch == nil {
		missing = append(missing, il.KindStackSwitch.String())
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{
			Kind:     ConfigMissingPseudoOp,
			Selector: selector,
			Detail:   strings.Join(missing, ", "),
		}
	}
	if kinds := b.ops.Missing(); len(kinds) > 0 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = k.String()
		}
		return nil, &ConfigurationError{
			Kind:     ConfigMissingConstructor,
			Selector: selector,
			Detail:   strings.Join(names, ", "),
		}
	}

	return &Target{
		name:        selector,
		handlers:    b.handlers,
		methodStart: b.methodStart,
		methodEnd:   b.methodEnd,
		stackSwitch: b.stackSwitch,
		ops:         b.ops,
	}, nil
}

// Builder collects one target's registrations. The first error wins.
type Builder struct {
	selector    string
	handlers    map[il.Opcode]Handler
	methodStart Handler
	methodEnd   Handler
	stackSwitch Handler
	ops         asm.Constructors
	err         *ConfigurationError
}

// Handle maps h to every opcode in ops. A handler without a valid opcode, or
// an opcode claimed twice, fails the load.
func (b *Builder) Handle(h Handler, ops ...il.Opcode) {
	if b.err != nil {
		return
	}
	if len(ops) == 0 {
		b.err = &ConfigurationError{
			Kind:     ConfigHandlerNoOpcode,
			Selector: b.selector,
			Detail:   fmt.Sprintf("handler %T declares no target opcode", h),
		}
		return
	}
	for _, op := range ops {
		if !op.Valid() {
			b.err = &ConfigurationError{
				Kind:     ConfigHandlerNoOpcode,
				Selector: b.selector,
				Detail:   fmt.Sprintf("handler %T declares invalid opcode %d", h, op),
			}
			return
		}
		if _, dup := b.handlers[op]; dup {
			b.err = &ConfigurationError{
				Kind:     ConfigDuplicateOpcode,
				Selector: b.selector,
				Detail:   op.String(),
			}
			return
		}
		b.handlers[op] = h
	}
}

// HandleFunc is Handle for plain functions.
func (b *Builder) HandleFunc(f func(st *State, ins *il.Instruction) error, ops ...il.Opcode) {
	b.Handle(HandlerFunc(f), ops...)
}

func (b *Builder) MethodStart(h Handler) { b.methodStart = h }

func (b *Builder) MethodEnd(h Handler) { b.methodEnd = h }

func (b *Builder) StackSwitch(h Handler) { b.stackSwitch = h }

// Ops installs the op constructor table.
func (b *Builder) Ops(c asm.Constructors) { b.ops = c }

// Target is a loaded backend. It is immutable for the rest of the run.
type Target struct {
	name        string
	handlers    map[il.Opcode]Handler
	methodStart Handler
	methodEnd   Handler
	stackSwitch Handler
	ops         asm.Constructors
}

func (t *Target) Name() string { return t.name }

// Handler returns the handler for op.
func (t *Target) Handler(op il.Opcode) (Handler, bool) {
	h, ok := t.handlers[op]
	return h, ok
}

// Pseudo returns the fixed handler of a pseudo-instruction kind, nil for
// KindNormal.
func (t *Target) Pseudo(kind il.InstrKind) Handler {
	switch kind {
	case il.KindMethodStart:
		return t.methodStart
	case il.KindMethodEnd:
		return t.methodEnd
	case il.KindStackSwitch:
		return t.stackSwitch
	}
	return nil
}

// Ops returns the op constructor table.
func (t *Target) Ops() asm.Constructors { return t.ops }

// Opcodes returns the opcodes the target handles, in opcode order.
func (t *Target) Opcodes() []il.Opcode {
	out := make([]il.Opcode, 0, len(t.handlers))
	for op := range t.handlers {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
