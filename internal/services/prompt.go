package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/postforge-backend/internal/content"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/types"
	"github.com/yungbote/postforge-backend/internal/workflow"
)

// Settings keys resolved through the cache. Values are prompt fragments that
// marketing can tune without a deploy.
const (
	SettingBaseStyle     = "prompt.base_style"
	SettingAssistantRole = "prompt.assistant_role"
)

// DefaultSettings backs the loader when no external settings source is
// configured.
var DefaultSettings = map[string]string{
	SettingBaseStyle:     "Write in plain, direct language. No hashtags unless asked. Avoid clichés.",
	SettingAssistantRole: "You are a content assistant helping a marketer shape one social media post.",
}

// StaticSettingsLoader serves DefaultSettings, the zero-dependency settings
// source.
func StaticSettingsLoader(ctx context.Context, key string) (string, error) {
	if v, ok := DefaultSettings[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown settings key %q", key)
}

// sectionCounts is how many candidates each section generates by default.
var sectionCounts = map[content.Type]int{
	content.TypeHook:   5,
	content.TypeIntro:  3,
	content.TypeTitle:  5,
	content.TypeCTA:    3,
	content.TypeVisual: 3,
}

// GenerationCount returns the default candidate count for a section. Body is
// a single piece of long-form text.
func GenerationCount(t content.Type) int {
	if t == content.TypeBody {
		return 1
	}
	if n, ok := sectionCounts[t]; ok {
		return n
	}
	return 3
}

// PromptService composes model prompts from project state and tunable
// settings fragments.
type PromptService struct {
	log      *logger.Logger
	settings *SettingsCache
}

func NewPromptService(baseLog *logger.Logger, settings *SettingsCache) *PromptService {
	return &PromptService{log: baseLog.With("service", "PromptService"), settings: settings}
}

func (p *PromptService) baseStyle(ctx context.Context) string {
	style, err := p.settings.Get(ctx, SettingBaseStyle, time.Now())
	if err != nil {
		p.log.Warn("falling back to built-in base style", "error", err)
		return DefaultSettings[SettingBaseStyle]
	}
	return style
}

func projectContext(project *types.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Platform: %s.", project.Platform)
	if project.Topic != "" {
		fmt.Fprintf(&b, " Topic: %s.", project.Topic)
	}
	if project.Audience != "" {
		fmt.Fprintf(&b, " Audience: %s.", project.Audience)
	}
	if project.Tone != "" {
		fmt.Fprintf(&b, " Tone: %s.", project.Tone)
	}
	return b.String()
}

// sectionInstructions describe what each content type is, in the voice the
// generation prompt needs.
var sectionInstructions = map[content.Type]string{
	content.TypeHook:   "attention-grabbing opening lines for the post",
	content.TypeIntro:  "short video intro scripts (2-3 sentences each)",
	content.TypeBody:   "the full body text of the post",
	content.TypeTitle:  "video titles under 70 characters",
	content.TypeCTA:    "closing calls to action",
	content.TypeVisual: "visual concept descriptions an image generator could render",
}

// GenerationPrompt builds the system and user prompts for generating one
// section. The reply contract is a bare JSON string array.
func (p *PromptService) GenerationPrompt(ctx context.Context, project *types.Project, t content.Type, count int) (system, user string) {
	if count <= 0 {
		count = GenerationCount(t)
	}
	system = fmt.Sprintf("You are a marketing copywriter. %s Respond with a JSON array of strings and nothing else.", p.baseStyle(ctx))
	user = fmt.Sprintf("%s\nGenerate %d %s. Return exactly %d strings in a JSON array.",
		projectContext(project), count, sectionInstructions[t], count)
	return system, user
}

// BodyPrompt builds the prompt for long-form body generation, anchored on the
// selected hook when one exists.
func (p *PromptService) BodyPrompt(ctx context.Context, project *types.Project, selectedHook string) (system, user string) {
	system = fmt.Sprintf("You are a marketing copywriter. %s Respond with the post body only, no preamble.", p.baseStyle(ctx))
	var b strings.Builder
	b.WriteString(projectContext(project))
	if selectedHook != "" {
		fmt.Fprintf(&b, "\nThe post opens with this hook: %q. Continue from it without repeating it.", selectedHook)
	}
	b.WriteString("\nWrite the full body of the post.")
	return system, b.String()
}

// AssistantPrompt builds the system prompt for the conversational assistant,
// embedding a snapshot of the current content so the model can reference
// items by index.
func (p *PromptService) AssistantPrompt(ctx context.Context, project *types.Project, output *types.Output) string {
	role, err := p.settings.Get(ctx, SettingAssistantRole, time.Now())
	if err != nil {
		role = DefaultSettings[SettingAssistantRole]
	}

	var b strings.Builder
	b.WriteString(role)
	b.WriteString("\n")
	b.WriteString(projectContext(project))
	fmt.Fprintf(&b, "\nCurrent workflow step: %s.", workflow.Label(project.CurrentStep))
	b.WriteString("\nUse the provided tools to change content; do not restate full content in chat when a tool call suffices. Item indexes are zero-based.")

	if output != nil {
		b.WriteString("\n\nCurrent content:")
		for _, t := range content.AllTypes {
			items := content.Items(output, t)
			if len(items) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n%s:", t)
			for i, item := range items {
				fmt.Fprintf(&b, "\n  [%d] %s", i, truncate(item, 160))
			}
			if sel := content.SelectedIndex(output, t); sel >= 0 {
				fmt.Fprintf(&b, "\n  selected: %d", sel)
			}
		}
	}
	return b.String()
}

// SlidesPrompt builds the prompt for carousel slide generation. The reply
// contract is a JSON array of slide objects; the narrative arc (hook opens,
// one point per interior slide, CTA closes) lives here, not in the validator.
func (p *PromptService) SlidesPrompt(ctx context.Context, project *types.Project, output *types.Output, slideCount int) (system, user string) {
	system = fmt.Sprintf(
		"You are a marketing copywriter building a %d-slide carousel. %s Respond with a JSON array of objects with keys headline, body, cta, visual_prompt and nothing else.",
		slideCount, p.baseStyle(ctx))

	var b strings.Builder
	b.WriteString(projectContext(project))
	if output != nil {
		if sel := content.SelectedIndex(output, content.TypeHook); sel >= 0 {
			hooks := content.Items(output, content.TypeHook)
			if sel < len(hooks) {
				fmt.Fprintf(&b, "\nThe first slide's headline is the hook: %q.", hooks[sel])
			}
		}
		if output.BodyContent != "" {
			fmt.Fprintf(&b, "\nSource body text:\n%s", truncate(output.BodyContent, 2000))
		}
	}
	fmt.Fprintf(&b, "\nProduce exactly %d slides: the hook on slide 1, one key point per middle slide, and a call to action on the last slide.", slideCount)
	return system, b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
