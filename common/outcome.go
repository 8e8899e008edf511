package common

type Cause int

const (
	CauseNone Cause = iota
	CauseRateLimited
	CauseOther
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "success"
	case CauseRateLimited:
		return "rate_limited"
	case CauseOther:
		return "error"
	default:
		return "unknown"
	}
}

// Call paths a rename attempt can go through.
const (
	PathPrimary   = "primary"
	PathSecondary = "secondary"
)

// Outcome is the tagged result of one call path.
type Outcome struct {
	Path   string
	Cause  Cause
	Detail string
}

func Success(path string) Outcome {
	return Outcome{Path: path, Cause: CauseNone}
}

func Failure(path string, cause Cause, detail string) Outcome {
	return Outcome{Path: path, Cause: cause, Detail: detail}
}

func (o Outcome) OK() bool {
	return o.Cause == CauseNone
}

func (o Outcome) RateLimited() bool {
	return o.Cause == CauseRateLimited
}
