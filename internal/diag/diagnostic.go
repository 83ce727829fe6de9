package diag

// Diagnostic is one entry of the scan log. Method is the signature of the
// method whose block produced it (empty for unit level findings) and Offset is
// the IL byte offset inside that method (0 when not applicable).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Unit     string
	Method   string
	Offset   int
	Message  string
}
