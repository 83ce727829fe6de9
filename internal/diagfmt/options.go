package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	Width int // максимальная ширина сообщения, 0 - не ограничено
	// GroupByUnit prints a header per unit instead of repeating the unit id
	// on every line.
	GroupByUnit bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // обрезка вывода, не Bag
	IncludeTitle bool
}
