package adapter

import "context"

// AssistantAdapter is the port for one structured exchange against a
// stateful assistant session: create a fresh conversation context, post
// the input, run to completion and extract the assistant text.
//
// A context is never reused across requests; every Run call starts from
// a clean thread.
type AssistantAdapter interface {
	// Run returns the concatenated text of all assistant-authored
	// messages produced by a completed run. It returns
	// *model.SessionError, *model.RunError or domain.ErrEmptyResponse
	// depending on where the exchange broke down.
	Run(ctx context.Context, assistantID, input string) (string, error)

	// CountTokens reports the prompt token count for input (best-effort,
	// used for metrics only).
	CountTokens(input string) int
}
