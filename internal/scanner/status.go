package scanner

// Status is the aggregate outcome of scanning a unit or a block. Higher
// values are worse.
type Status uint8

const (
	StatusOK Status = iota
	StatusPartialFailure
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPartialFailure:
		return "partial-failure"
	case StatusFail:
		return "fail"
	}
	return "unknown"
}

// Worse returns the more severe of a and b.
func Worse(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}
