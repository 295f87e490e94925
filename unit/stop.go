package unit

import "time"

// LabelIdentifier names a label plus a byte offset from it (e.g. "one
// past the end of a loop body").
type LabelIdentifier struct {
	Name   string
	Offset int64
}

// StopCondition is one reason ExecuteUntil should stop; multiple
// conditions combine as "whichever is satisfied first", except Complete,
// which only changes whether landing on a finished-program PC is an error.
type StopCondition struct {
	kind    stopKind
	address uint32
	label   LabelIdentifier
	steps   int
	timeout time.Duration
}

type stopKind int

const (
	stopAddress stopKind = iota
	stopMaybeLabel
	stopLabel
	stopSteps
	stopTimeout
	stopComplete
)

func Address(pc uint32) StopCondition { return StopCondition{kind: stopAddress, address: pc} }

func MaybeLabel(identifier LabelIdentifier) StopCondition {
	return StopCondition{kind: stopMaybeLabel, label: identifier}
}

func Label(identifier LabelIdentifier) StopCondition {
	return StopCondition{kind: stopLabel, label: identifier}
}

func Steps(count int) StopCondition { return StopCondition{kind: stopSteps, steps: count} }

func Timeout(duration time.Duration) StopCondition {
	return StopCondition{kind: stopTimeout, timeout: duration}
}

func Complete() StopCondition { return StopCondition{kind: stopComplete} }

type stopConditionParameters struct {
	timeout       time.Duration
	steps         *int
	breakpoints   []uint32
	completeError bool
}

// resolveStopConditions turns the declarative condition list into
// concrete breakpoints/timeout/step-count.
func resolveStopConditions(conditions []StopCondition, getLabel func(string) (uint32, bool)) (*stopConditionParameters, error) {
	params := &stopConditionParameters{completeError: true}

	for _, c := range conditions {
		switch c.kind {
		case stopTimeout:
			if params.timeout == 0 || c.timeout < params.timeout {
				params.timeout = c.timeout
			}
		case stopSteps:
			if params.steps == nil || c.steps < *params.steps {
				steps := c.steps
				params.steps = &steps
			}
		case stopComplete:
			params.completeError = false
		}
	}

	for _, c := range conditions {
		switch c.kind {
		case stopAddress:
			params.breakpoints = append(params.breakpoints, c.address)
		case stopMaybeLabel:
			if address, ok := getLabel(c.label.Name); ok {
				params.breakpoints = append(params.breakpoints, uint32(int64(address)+c.label.Offset))
			}
		case stopLabel:
			address, ok := getLabel(c.label.Name)
			if !ok {
				return nil, &Error{Kind: ErrMissingLabel, Label: c.label.Name}
			}
			params.breakpoints = append(params.breakpoints, uint32(int64(address)+c.label.Offset))
		}
	}

	return params, nil
}
