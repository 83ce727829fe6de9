package diag

// MaxLimit is the largest cap a Bag accepts. NewBag clamps to it.
const MaxLimit = 1 << 20

// Bag is the append-only scan log with a cap on stored entries.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag returns a bag that keeps at most limit diagnostics. A limit outside
// 1..MaxLimit is clamped into that range.
func NewBag(limit int) *Bag {
	limit = min(MaxLimit, max(1, limit))
	return &Bag{
		items: make([]Diagnostic, 0, min(limit, 256)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// ForUnit returns the diagnostics recorded for one unit, in log order.
func (b *Bag) ForUnit(unit string) []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if d.Unit == unit {
			out = append(out, d)
		}
	}
	return out
}

// Units returns the distinct units of the log in order of first appearance.
func (b *Bag) Units() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range b.items {
		if !seen[d.Unit] {
			seen[d.Unit] = true
			out = append(out, d.Unit)
		}
	}
	return out
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	b.max = max(b.max, len(b.items)+len(other.items))
	b.items = append(b.items, other.items...)
}
