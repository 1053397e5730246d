// Package payments holds the payment status workflow applied to a session's
// working copy of the transactions dataset.
package payments

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/petrocom/uts/internal/records"
)

// Status is a payment lifecycle stage as stored in the status field.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

// Action is a user-triggered status change.
type Action string

const (
	ActionProcess  Action = "process"
	ActionComplete Action = "complete"
	ActionFail     Action = "fail"
	ActionRetry    Action = "retry"
	ActionRefund   Action = "refund"
)

var (
	// ErrInvalidTransition is returned when an action does not apply to the current status.
	ErrInvalidTransition = errors.New("payments: invalid status transition")
	// ErrUnknownAction is returned for action names outside the workflow.
	ErrUnknownAction = errors.New("payments: unknown action")
	// ErrUnknownStatus is returned when a stored status is not a workflow stage.
	ErrUnknownStatus = errors.New("payments: unknown status")
)

type edge struct {
	from Status
	to   Status
}

var transitions = map[Action]edge{
	ActionProcess:  {from: StatusPending, to: StatusProcessing},
	ActionComplete: {from: StatusProcessing, to: StatusCompleted},
	ActionFail:     {from: StatusPending, to: StatusFailed},
	ActionRetry:    {from: StatusFailed, to: StatusProcessing},
	ActionRefund:   {from: StatusCompleted, to: StatusRefunded},
}

var actionOrder = []Action{ActionProcess, ActionComplete, ActionFail, ActionRetry, ActionRefund}

// ParseStatus normalises a stored or user-supplied status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusRefunded:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// ParseAction normalises an action name.
func ParseAction(raw string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := transitions[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
	return a, nil
}

// Label is the display form, e.g. "Processing".
func (s Status) Label() string {
	return cases.Title(language.English).String(string(s))
}

// Next returns the status reached by applying a to from.
func Next(from Status, a Action) (Status, error) {
	e, ok := transitions[a]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
	if e.from != from {
		return "", fmt.Errorf("%w: cannot %s a %s payment", ErrInvalidTransition, a, from)
	}
	return e.to, nil
}

// Available lists the actions that apply to s, in a fixed order.
func Available(s Status) []Action {
	var out []Action
	for _, a := range actionOrder {
		if transitions[a].from == s {
			out = append(out, a)
		}
	}
	return out
}

// Workflow applies transitions to the status field of a collection.
type Workflow struct {
	Field string
}

// NewWorkflow builds a workflow over the given status field.
func NewWorkflow(field string) Workflow {
	return Workflow{Field: field}
}

// Apply moves record id through action a, changing only the status field of c.
// c should be a working copy; the seed collection is never passed here.
func (w Workflow) Apply(c *records.Collection, id string, a Action) (Status, error) {
	rec, ok := c.Find(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", records.ErrNotFound, id)
	}
	from, err := ParseStatus(rec.Text(w.Field))
	if err != nil {
		return "", err
	}
	to, err := Next(from, a)
	if err != nil {
		return "", err
	}
	if err := c.Set(id, w.Field, string(to)); err != nil {
		return "", err
	}
	return to, nil
}
