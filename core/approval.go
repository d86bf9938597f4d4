package core

import (
	"fmt"

	"github.com/retailops/auditpulse/schema"
)

// ApprovalEvent is one action applied to a plan item's status.
type ApprovalEvent string

// Approval events. Approval is strictly serial: the HCBP sign-off is a
// two-person-integrity control and is only reachable after the Head of
// Branch stage, enforced here rather than hidden in any view.
const (
	EventSubmit       ApprovalEvent = "submit"        // store marks execution started
	EventHeadApprove  ApprovalEvent = "head_approve"  // Head of Branch sign-off
	EventFinalApprove ApprovalEvent = "final_approve" // HCBP sign-off
	EventReject       ApprovalEvent = "reject"        // steps back exactly one stage
)

// Transition applies an approval event to a status and returns the next
// status. Invalid transitions are errors, never silent no-ops.
func Transition(current schema.PlanStatus, event ApprovalEvent) (schema.PlanStatus, error) {
	switch event {
	case EventSubmit:
		if current == schema.PlanPending {
			return schema.PlanInProgress, nil
		}
	case EventHeadApprove:
		if current == schema.PlanInProgress {
			return schema.PlanHeadApproved, nil
		}
	case EventFinalApprove:
		// Unreachable until the first-stage approval has occurred.
		if current == schema.PlanHeadApproved {
			return schema.PlanApproved, nil
		}
	case EventReject:
		switch current {
		case schema.PlanHeadApproved:
			return schema.PlanPending, nil
		case schema.PlanApproved:
			return schema.PlanInProgress, nil
		}
	default:
		return current, fmt.Errorf("unknown approval event %q", event)
	}
	return current, fmt.Errorf("invalid transition: %s on status %s", event, current)
}
