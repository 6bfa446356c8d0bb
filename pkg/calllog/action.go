package calllog

import (
	"context"

	"rclogs/pkg/ringcentral"
	"rclogs/pkg/throttle"
)

// Outcome classifies what happened to one traversed record
type Outcome string

const (
	// OutcomeDeleted means the provider confirmed the deletion
	OutcomeDeleted Outcome = "deleted"
	// OutcomeSkipped means the policy chose not to delete
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the deletion was attempted and failed
	OutcomeFailed Outcome = "failed"
)

// DeletionResult reports what a policy did with one record
type DeletionResult struct {
	Outcome Outcome
	Reason  string // why the record was skipped
	Cause   error  // why the deletion failed
}

// Deleted reports a confirmed deletion
func Deleted() DeletionResult {
	return DeletionResult{Outcome: OutcomeDeleted}
}

// Skipped reports a record the policy left alone
func Skipped(reason string) DeletionResult {
	return DeletionResult{Outcome: OutcomeSkipped, Reason: reason}
}

// Failed reports an attempted deletion that did not succeed
func Failed(cause error) DeletionResult {
	return DeletionResult{Outcome: OutcomeFailed, Cause: cause}
}

// Action decides the fate of one traversed record
type Action interface {
	Decide(ctx context.Context, record ringcentral.CallLogRecord) DeletionResult
}

// deleter issues the throttled DELETE shared by both policies
type deleter struct {
	api  API
	exec *throttle.Executor
}

func (d deleter) delete(ctx context.Context, record ringcentral.CallLogRecord) DeletionResult {
	err := d.exec.Execute(ctx, func() error {
		return d.api.DeleteCallLog(ctx, record.ID)
	})
	if err != nil {
		return Failed(err)
	}
	return Deleted()
}

// InteractiveAction shows each record to the Confirmer and deletes
// only on explicit approval
type InteractiveAction struct {
	deleter
	confirmer Confirmer
}

// NewInteractiveAction creates the confirm-then-delete policy
func NewInteractiveAction(api API, exec *throttle.Executor, confirmer Confirmer) *InteractiveAction {
	return &InteractiveAction{
		deleter:   deleter{api: api, exec: exec},
		confirmer: confirmer,
	}
}

// Decide asks for approval and deletes on an affirmative answer
func (a *InteractiveAction) Decide(ctx context.Context, record ringcentral.CallLogRecord) DeletionResult {
	approved, err := a.confirmer.Confirm(record)
	if err != nil {
		return Failed(err)
	}
	if !approved {
		return Skipped("declined")
	}
	return a.delete(ctx, record)
}

// UnattendedAction deletes every record that carries a recording,
// without prompting
type UnattendedAction struct {
	deleter
}

// NewUnattendedAction creates the recording-predicate policy
func NewUnattendedAction(api API, exec *throttle.Executor) *UnattendedAction {
	return &UnattendedAction{
		deleter: deleter{api: api, exec: exec},
	}
}

// Decide deletes records with a recording and skips the rest
func (a *UnattendedAction) Decide(ctx context.Context, record ringcentral.CallLogRecord) DeletionResult {
	if !record.HasRecording() {
		return Skipped("no recording")
	}
	return a.delete(ctx, record)
}
