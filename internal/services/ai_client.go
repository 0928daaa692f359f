package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/yungbote/postforge-backend/internal/actions"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/utils"
)

// aiRequestTimeout bounds every model call. Hitting it surfaces as
// errdef.ErrTimeout so handlers can map it to 504.
const aiRequestTimeout = 60 * time.Second

// Turn is one conversation turn handed to the model.
type Turn struct {
	Role    string
	Content string
}

// ChatResult is the model's reply to a tool-enabled call: visible text,
// structured tool invocations, or both.
type ChatResult struct {
	Text      string
	ToolCalls []actions.ToolCall
}

// AIClient is the text-model boundary. Implementations must honor the request
// timeout and return errdef sentinels for unavailability and deadline.
type AIClient interface {
	Complete(ctx context.Context, system string, history []Turn, user string) (string, error)
	CompleteWithTools(ctx context.Context, system string, history []Turn, tools []actions.ToolSchema) (*ChatResult, error)
}

type openAIClient struct {
	log   *logger.Logger
	model string
	opts  []option.RequestOption
}

func NewOpenAIClient(baseLog *logger.Logger) (AIClient, error) {
	clientLog := baseLog.With("service", "OpenAIClient")
	apiKey := utils.GetEnv("OPENAI_API_KEY", "", baseLog)
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := utils.GetEnv("OPENAI_BASE_URL", "", baseLog); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	model := utils.GetEnv("OPENAI_CHAT_MODEL", "gpt-4o", baseLog)
	return &openAIClient{log: clientLog, model: model, opts: opts}, nil
}

func (c *openAIClient) Complete(ctx context.Context, system string, history []Turn, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, aiRequestTimeout)
	defer cancel()

	client := openai.NewClient(c.opts...)
	msgs := buildMessages(system, history)
	if user != "" {
		msgs = append(msgs, openai.UserMessage(user))
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: msgs,
	})
	if err != nil {
		return "", c.wrapErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model returned no choices", errdef.ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *openAIClient) CompleteWithTools(ctx context.Context, system string, history []Turn, tools []actions.ToolSchema) (*ChatResult, error) {
	ctx, cancel := context.WithTimeout(ctx, aiRequestTimeout)
	defer cancel()

	client := openai.NewClient(c.opts...)
	msgs := buildMessages(system, history)

	toolParams := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		toolParams = append(toolParams, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  openai.FunctionParameters(t.Parameters),
			},
		})
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: msgs,
		Tools:    toolParams,
	})
	if err != nil {
		return nil, c.wrapErr(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: model returned no choices", errdef.ErrUnavailable)
	}

	msg := resp.Choices[0].Message
	result := &ChatResult{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			// Undecodable arguments become an empty map; Parse drops the call
			// with a per-field reason instead of the batch dying here.
			c.log.Warn("tool call arguments not decodable", "tool", tc.Function.Name, "error", err)
			args = map[string]any{}
		}
		result.ToolCalls = append(result.ToolCalls, actions.ToolCall{
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	return result, nil
}

func (c *openAIClient) wrapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: model call exceeded %s", errdef.ErrTimeout, aiRequestTimeout)
	}
	return fmt.Errorf("%w: %v", errdef.ErrUnavailable, err)
}

func buildMessages(system string, history []Turn) []openai.ChatCompletionMessageParamUnion {
	msgs := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	for _, h := range history {
		switch h.Role {
		case "assistant":
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(h.Content))
		default:
			msgs = append(msgs, openai.UserMessage(h.Content))
		}
	}
	return msgs
}

// ParseJSONArray extracts a JSON string array from a model reply, tolerating
// surrounding prose and markdown fences.
func ParseJSONArray(reply string) ([]string, error) {
	raw := extractJSON(reply, '[', ']')
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON array in model reply", errdef.ErrUnavailable)
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: model reply not a string array: %v", errdef.ErrUnavailable, err)
	}
	return out, nil
}

// ParseJSONInto decodes the first JSON array or object in a model reply into
// out.
func ParseJSONInto(reply string, out any) error {
	raw := extractJSON(reply, '[', ']')
	if raw == "" {
		raw = extractJSON(reply, '{', '}')
	}
	if raw == "" {
		return fmt.Errorf("%w: no JSON in model reply", errdef.ErrUnavailable)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: model reply not decodable: %v", errdef.ErrUnavailable, err)
	}
	return nil
}

func extractJSON(s string, opener, closer byte) string {
	start := strings.IndexByte(s, opener)
	end := strings.LastIndexByte(s, closer)
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
