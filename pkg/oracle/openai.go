package oracle

import (
	"context"
	"encoding/json"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/graphgazer/graphgazer/pkg/errors"
)

// systemPrompt instructs the model to answer about the graph in strict
// JSON so suggested actions stay machine-applicable.
const systemPrompt = `You are a graph analysis assistant. The user is exploring an
interactive node-link visualization. You receive a bounded summary of the
graph or of the user's current viewport, plus a question.

Answer as a JSON object with exactly these fields:
  "explanation": a concise natural-language answer,
  "suggested_actions": an optional array of
    {"label": string, "actionType": string, "params": object}
where actionType is one of "focus_node" (params: {"node_id": ...}),
"filter_cluster" (params: {"cluster": ...}), or "reset_view" (no params).
Only suggest actions that follow from the summary. Never invent node IDs.`

// Config configures the OpenAI-backed collaborator. Values usually come
// from the CLI config file.
type Config struct {
	Model   string        // e.g. "gpt-4o-mini"
	BaseURL string        // optional override for OpenAI-compatible servers
	APIKey  string        // bearer token
	Timeout time.Duration // per-request bound (default DefaultTimeout)
}

// DefaultTimeout bounds a single oracle round-trip.
const DefaultTimeout = 30 * time.Second

// DefaultModel is used when the config names none.
const DefaultModel = "gpt-4o-mini"

// OpenAICollaborator calls an OpenAI-compatible chat completion endpoint.
type OpenAICollaborator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI creates a collaborator from cfg.
// Returns ErrCodeInvalidConfig when no API key is configured.
func NewOpenAI(cfg Config) (*OpenAICollaborator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "oracle API key not configured")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenAICollaborator{
		client:  openai.NewClientWithConfig(cc),
		model:   model,
		timeout: timeout,
	}, nil
}

// Explain sends (query, context) and parses the structured response.
// A reply that is not valid JSON degrades to an explanation-only
// response rather than failing the round-trip.
func (o *OpenAICollaborator) Explain(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Context:\n" + req.Context + "\n\nQuestion: " + req.Query},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Response{}, errors.Wrap(errors.ErrCodeOracleTimeout, err, "oracle timed out after %s", o.timeout)
		}
		return Response{}, errors.Wrap(errors.ErrCodeOracle, err, "oracle request failed")
	}
	if len(resp.Choices) == 0 {
		return Response{}, errors.New(errors.ErrCodeOracle, "oracle returned no choices")
	}

	content := resp.Choices[0].Message.Content
	var out Response
	if err := json.Unmarshal([]byte(content), &out); err != nil || out.Explanation == "" {
		// Malformed structure: treat the raw text as the explanation.
		return Response{Explanation: content}, nil
	}
	return out, nil
}

var _ Collaborator = (*OpenAICollaborator)(nil)
