// Package advisor implements the conflict-resolution oracle contract
// (classify, generate) against the OpenAI chat completions API.
package advisor

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

const defaultModel = "gpt-4o-mini"

const classifySystemPrompt = "You classify merge conflict hunks. For each numbered conflict, " +
	"reply with exactly one line \"N STRATEGY\" where STRATEGY is one of " +
	"OURS, THEIRS, BOTH_OT, BOTH_TO, GENERATE. No other text."

const generateSystemPrompt = "You resolve merge conflicts. For each numbered conflict, emit a " +
	"block headed \"=== RESOLUTION N ===\" containing only the merged code, " +
	"no code fences and no commentary."

// OpenAIAdvisor implements repositories.Advisor against OpenAI chat
// completions.
type OpenAIAdvisor struct {
	client *openai.Client
	model  string
}

var _ repositories.Advisor = (*OpenAIAdvisor)(nil)

// NewOpenAIAdvisor builds an advisor from OPENAI_API_KEY / OPENAI_MODEL.
func NewOpenAIAdvisor() (*OpenAIAdvisor, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", entities.ErrAdvisor)
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
		logger.Debugf("OPENAI_MODEL not set, defaulting to %s", defaultModel)
	}
	return &OpenAIAdvisor{client: openai.NewClient(apiKey), model: model}, nil
}

func (a *OpenAIAdvisor) Classify(ctx context.Context, batch string) (string, error) {
	return a.complete(ctx, classifySystemPrompt, batch)
}

func (a *OpenAIAdvisor) Generate(ctx context.Context, batch string) (string, error) {
	return a.complete(ctx, generateSystemPrompt, batch)
}

func (a *OpenAIAdvisor) complete(ctx context.Context, systemPrompt, batch string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: batch},
		},
	}
	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrAdvisor, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", entities.ErrAdvisor)
	}
	return resp.Choices[0].Message.Content, nil
}
