// Package assistant defines the contract for the hosted conversational
// backend: a persistent server-side conversation, appended user turns, and an
// asynchronous job polled to completion.
package assistant

import (
	"context"
)

// JobStatus is the provider's run-state enumeration. Only JobStatusCompleted
// yields a usable result; Queued/InProgress keep the poll loop going; every
// other value is terminal.
type JobStatus string

const (
	JobStatusQueued         JobStatus = "queued"
	JobStatusInProgress     JobStatus = "in_progress"
	JobStatusRequiresAction JobStatus = "requires_action"
	JobStatusCancelling     JobStatus = "cancelling"
	JobStatusCancelled      JobStatus = "cancelled"
	JobStatusFailed         JobStatus = "failed"
	JobStatusCompleted      JobStatus = "completed"
	JobStatusExpired        JobStatus = "expired"
)

// Pending reports whether the job is still worth polling.
func (s JobStatus) Pending() bool {
	return s == JobStatusQueued || s == JobStatusInProgress
}

// Provider defines the contract for the inference backend.
type Provider interface {
	// CreateConversation opens a new server-side conversation and returns
	// its opaque handle.
	CreateConversation(ctx context.Context) (string, error)

	// AppendUserMessage adds a user-role entry to the conversation.
	AppendUserMessage(ctx context.Context, conversationID, content string) error

	// StartJob launches an asynchronous run of the given assistant identity
	// over the conversation and returns the job id.
	StartJob(ctx context.Context, conversationID, assistantID string) (string, error)

	// JobStatus fetches the current status of a job.
	JobStatus(ctx context.Context, conversationID, jobID string) (JobStatus, error)

	// LatestMessageText returns the first text block of the newest message on
	// the conversation. ok is false when the message carries no text block.
	LatestMessageText(ctx context.Context, conversationID string) (text string, ok bool, err error)
}
