package ai

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"telegram-dns-assistant/internal/domain"
	"telegram-dns-assistant/internal/domain/model"
	"telegram-dns-assistant/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AssistantAdapter = (*OpenAIAssistantAdapter)(nil)

// Every run carries the same fixed instruction.
const runInstructions = "Address the user as user."

// OpenAIAssistantAdapter implements adapter.AssistantAdapter on the
// Assistants (Beta Threads) API. Each Run creates a fresh thread, posts
// one user message, polls the run to a terminal status and collects the
// assistant text.
type OpenAIAssistantAdapter struct {
	client openai.Client
	enc    *tiktoken.Tiktoken
	log    *zerolog.Logger
}

func NewOpenAIAssistantAdapter(apiKey string, logger *zerolog.Logger, opts ...option.RequestOption) (*OpenAIAssistantAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	// cl100k_base is close enough for prompt accounting across models
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &OpenAIAssistantAdapter{
		client: openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		enc:    enc,
		log:    logger,
	}, nil
}

func (a *OpenAIAssistantAdapter) CountTokens(input string) int {
	return len(a.enc.Encode(input, nil, nil))
}

func (a *OpenAIAssistantAdapter) Run(ctx context.Context, assistantID, input string) (string, error) {
	thread, err := a.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", &model.SessionError{Op: "create thread", Err: err}
	}

	_, err = a.client.Beta.Threads.Messages.New(ctx, thread.ID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(input),
		},
	})
	if err != nil {
		return "", &model.SessionError{Op: "post message", Err: err}
	}

	run, err := a.client.Beta.Threads.Runs.NewAndPoll(ctx, thread.ID, openai.BetaThreadRunNewParams{
		AssistantID:  assistantID,
		Instructions: openai.String(runInstructions),
	}, 0)
	if err != nil {
		return "", &model.SessionError{Op: "create run", Err: err}
	}
	if run.Status != openai.RunStatusCompleted {
		a.log.Warn().Str("thread_id", thread.ID).Str("status", string(run.Status)).Msg("run did not complete")
		return "", &model.RunError{Status: model.RunStatus(run.Status)}
	}

	page, err := a.client.Beta.Threads.Messages.List(ctx, thread.ID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderAsc,
	})
	if err != nil {
		return "", &model.SessionError{Op: "list messages", Err: err}
	}

	var sb strings.Builder
	for _, msg := range page.Data {
		if msg.Role != openai.MessageRoleAssistant {
			continue
		}
		for _, part := range msg.Content {
			// non-text segments (images etc.) are skipped
			if part.Type == "text" {
				sb.WriteString(part.Text.Value)
			}
		}
	}
	if sb.Len() == 0 {
		return "", domain.ErrEmptyResponse
	}
	return sb.String(), nil
}
