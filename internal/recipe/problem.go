package recipe

// ProblemCode classifies a resolution problem
type ProblemCode string

const (
	ProblemMissingConfiguration ProblemCode = "missing_configuration"
	ProblemUndefinedResource    ProblemCode = "undefined_resource"
	ProblemInvalidConfiguration ProblemCode = "invalid_configuration"
)

// Problem is a non-fatal finding of the resolver, reported on the capacity report
type Problem struct {
	Code    ProblemCode
	Message string
}

func (p Problem) String() string {
	return p.Message
}

// Blocking reports whether the problem makes the product unproducible.
// A missing configuration is not blocking: the analyzer falls back to degraded mode.
func (p Problem) Blocking() bool {
	return p.Code != ProblemMissingConfiguration
}

// Messages flattens problems into their display strings
func Messages(problems []Problem) []string {
	out := make([]string, 0, len(problems))
	for _, p := range problems {
		out = append(out, p.Message)
	}
	return out
}

// HasBlocking reports whether any problem is blocking
func HasBlocking(problems []Problem) bool {
	for _, p := range problems {
		if p.Blocking() {
			return true
		}
	}
	return false
}

// HasCode reports whether any problem carries the given code
func HasCode(problems []Problem, code ProblemCode) bool {
	for _, p := range problems {
		if p.Code == code {
			return true
		}
	}
	return false
}
