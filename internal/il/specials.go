package il

// Specials holds the runtime support types found in a program graph.
// Missing entries are nil.
type Specials struct {
	TypeInfo          *TypeDescriptor
	MethodInfo        *TypeDescriptor
	FieldInfo         *TypeDescriptor
	String            *TypeDescriptor
	Array             *TypeDescriptor
	MulticastDelegate *TypeDescriptor
}

// Get returns the type registered for kind.
func (s *Specials) Get(kind SpecialKind) *TypeDescriptor {
	if s == nil {
		return nil
	}
	switch kind {
	case SpecialTypeInfo:
		return s.TypeInfo
	case SpecialMethodInfo:
		return s.MethodInfo
	case SpecialFieldInfo:
		return s.FieldInfo
	case SpecialString:
		return s.String
	case SpecialArray:
		return s.Array
	case SpecialMulticastDelegate:
		return s.MulticastDelegate
	}
	return nil
}

func (s *Specials) set(t *TypeDescriptor) {
	if s.Get(t.Special) != nil {
		return
	}
	switch t.Special {
	case SpecialTypeInfo:
		s.TypeInfo = t
	case SpecialMethodInfo:
		s.MethodInfo = t
	case SpecialFieldInfo:
		s.FieldInfo = t
	case SpecialString:
		s.String = t
	case SpecialArray:
		s.Array = t
	case SpecialMulticastDelegate:
		s.MulticastDelegate = t
	}
}

// Missing lists the kinds that were not found.
func (s *Specials) Missing() []SpecialKind {
	var out []SpecialKind
	for k := SpecialTypeInfo; k <= SpecialMulticastDelegate; k++ {
		if s.Get(k) == nil {
			out = append(out, k)
		}
	}
	return out
}

// CollectSpecials walks the graph reachable from root, dependencies first,
// and returns the first type declared for each special kind.
func CollectSpecials(root *Unit) *Specials {
	s := &Specials{}
	Walk(root, func(u *Unit) {
		for _, t := range u.Types {
			if t.Special != SpecialNone {
				s.set(t)
			}
		}
	})
	return s
}

// Walk visits every unit reachable from root once, dependencies before
// dependents.
func Walk(root *Unit, visit func(*Unit)) {
	seen := make(map[*Unit]bool)
	var walk func(u *Unit)
	walk = func(u *Unit) {
		if u == nil || seen[u] {
			return
		}
		seen[u] = true
		for _, dep := range u.Dependencies {
			walk(dep)
		}
		visit(u)
	}
	walk(root)
}
