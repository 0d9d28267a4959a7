package memory

type Status int

const (
	StatusSuccess Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result tells "nothing found" apart from "storage or embedding failed".
type Result struct {
	Status Status
	Err    error
}

func success() Result         { return Result{Status: StatusSuccess} }
func empty() Result           { return Result{Status: StatusEmpty} }
func failed(err error) Result { return Result{Status: StatusFailed, Err: err} }

func (r Result) Failed() bool {
	return r.Status == StatusFailed
}

func (r Result) Success() bool {
	return r.Status == StatusSuccess
}
