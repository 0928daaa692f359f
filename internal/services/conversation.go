package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/actions"
	"github.com/yungbote/postforge-backend/internal/carousel"
	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/repos"
	"github.com/yungbote/postforge-backend/internal/types"
	"github.com/yungbote/postforge-backend/internal/workflow"
)

// historyWindow bounds how many stored messages feed the model.
const historyWindow = 40

// NormalizeHistory converts stored messages into model turns, merging
// consecutive same-role messages into one turn separated by a blank line.
// Chat APIs reject or mishandle adjacent same-role turns; merging preserves
// the full text.
func NormalizeHistory(msgs []*types.ChatMessage) []Turn {
	var turns []Turn
	for _, m := range msgs {
		if m.Content == "" {
			continue
		}
		if n := len(turns); n > 0 && turns[n-1].Role == m.Role {
			turns[n-1].Content += "\n\n" + m.Content
			continue
		}
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

// ChatReply is the orchestrator's result: the assistant's visible text plus
// the state the batch changed.
type ChatReply struct {
	Reply    string                  `json:"reply"`
	Output   *types.Output           `json:"output,omitempty"`
	Slides   []types.Slide           `json:"slides,omitempty"`
	Images   []*types.GeneratedImage `json:"images,omitempty"`
	Failures []actions.Failure       `json:"failures,omitempty"`
}

type ChatService interface {
	HandleMessage(ctx context.Context, projectID uuid.UUID, userText string) (*ChatReply, error)
	History(ctx context.Context, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error)
}

type chatService struct {
	log        *logger.Logger
	ai         AIClient
	prompts    *PromptService
	dispatcher *actions.Dispatcher
	contentSvc ContentService
	projects   repos.ProjectRepo
	outputs    repos.OutputRepo
	versions   repos.ContentVersionRepo
	carousels  repos.CarouselRepo
	messages   repos.MessageRepo
}

func NewChatService(
	baseLog *logger.Logger,
	ai AIClient,
	prompts *PromptService,
	dispatcher *actions.Dispatcher,
	contentSvc ContentService,
	projects repos.ProjectRepo,
	outputs repos.OutputRepo,
	versions repos.ContentVersionRepo,
	carousels repos.CarouselRepo,
	messages repos.MessageRepo,
) ChatService {
	return &chatService{
		log:        baseLog.With("service", "ChatService"),
		ai:         ai,
		prompts:    prompts,
		dispatcher: dispatcher,
		contentSvc: contentSvc,
		projects:   projects,
		outputs:    outputs,
		versions:   versions,
		carousels:  carousels,
		messages:   messages,
	}
}

func (s *chatService) History(ctx context.Context, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	return s.messages.GetByProjectID(dbctx.Context{Ctx: ctx}, projectID, limit)
}

// HandleMessage runs one conversation turn end to end: persist the user
// message, call the model with the action tool set, dispatch whatever it
// invoked, run deferred regenerations, and persist the assistant's reply.
func (s *chatService) HandleMessage(ctx context.Context, projectID uuid.UUID, userText string) (*ChatReply, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, fmt.Errorf("%w: empty message", errdef.ErrMalformedAction)
	}

	dbc := dbctx.Context{Ctx: ctx}
	project, err := s.projects.GetByID(dbc, projectID)
	if err != nil {
		return nil, err
	}
	output, err := s.outputs.GetByProjectID(dbc, projectID)
	if err != nil {
		return nil, err
	}

	var slides []types.Slide
	var carouselRow *types.CarouselOutput
	if workflow.CarouselCapable(project.Platform) {
		if row, err := s.carousels.GetByProjectID(dbc, projectID); err == nil {
			carouselRow = row
			slides = carousel.DecodeSlides(row.Slides)
		}
	}

	if err := s.persistMessage(dbc, projectID, types.RoleUser, userText); err != nil {
		return nil, err
	}

	history, err := s.messages.GetRecentByProjectID(dbc, projectID, historyWindow)
	if err != nil {
		return nil, err
	}

	system := s.prompts.AssistantPrompt(ctx, project, output)
	result, err := s.ai.CompleteWithTools(ctx, system, NormalizeHistory(history), actions.Schemas())
	if err != nil {
		return nil, err
	}

	batch, droppedCalls := actions.Parse(result.ToolCalls)
	for _, d := range droppedCalls {
		s.log.Warn("tool call dropped", "project_id", projectID, "tool", d.Name, "reason", d.Reason)
	}

	target := actions.Target{
		ProjectID:   projectID,
		Output:      output,
		Slides:      slides,
		HasCarousel: carouselRow != nil,
	}
	res := s.dispatcher.Dispatch(ctx, target, batch)

	if res.OutputChanged {
		if err := s.outputs.Save(dbc, output); err != nil {
			return nil, err
		}
	}
	if res.SlidesChanged && carouselRow != nil {
		carouselRow.Slides = carousel.EncodeSlides(res.Slides)
		if err := s.carousels.Save(dbc, carouselRow); err != nil {
			return nil, err
		}
	}
	if len(res.Versions) > 0 {
		if _, err := s.versions.Create(dbc, res.Versions); err != nil {
			return nil, err
		}
	}

	notes := append([]string{}, res.Notes...)
	for _, def := range res.Deferred {
		updated, err := s.runDeferred(ctx, projectID, def)
		if err != nil {
			s.log.Warn("deferred generation failed", "project_id", projectID, "action", def.Action, "error", err)
			notes = append(notes, fmt.Sprintf("I couldn't complete %s for %s: %s.", def.Action, def.ContentType, err.Error()))
			continue
		}
		output = updated
	}

	reply := s.composeReply(result.Text, notes, res)
	if err := s.persistMessage(dbc, projectID, types.RoleAssistant, reply); err != nil {
		return nil, err
	}

	return &ChatReply{
		Reply:    reply,
		Output:   output,
		Slides:   res.Slides,
		Images:   res.Images,
		Failures: res.Failures,
	}, nil
}

func (s *chatService) runDeferred(ctx context.Context, projectID uuid.UUID, def actions.Deferred) (*types.Output, error) {
	switch def.Action {
	case "add_more":
		return s.contentSvc.AddMore(ctx, projectID, def.ContentType)
	default:
		return s.contentSvc.RegenerateSection(ctx, projectID, def.ContentType)
	}
}

// composeReply assembles the visible assistant text. Model text leads when
// present; notes always surface; tool-only turns synthesize confirmations so
// the user never sees an empty reply for a batch that did something.
func (s *chatService) composeReply(text string, notes []string, res *actions.Result) string {
	parts := []string{}
	if t := strings.TrimSpace(text); t != "" {
		parts = append(parts, t)
	} else if confirmations := res.Confirmations(); len(confirmations) > 0 {
		parts = append(parts, strings.Join(confirmations, " "))
	}
	parts = append(parts, notes...)
	if len(parts) == 0 {
		parts = append(parts, "I didn't make any changes. Could you say more about what you'd like to adjust?")
	}
	return strings.Join(parts, "\n\n")
}

func (s *chatService) persistMessage(dbc dbctx.Context, projectID uuid.UUID, role, text string) error {
	seq, err := s.messages.NextSeq(dbc, projectID)
	if err != nil {
		return err
	}
	_, err = s.messages.Create(dbc, &types.ChatMessage{
		ID:        uuid.New(),
		ProjectID: projectID,
		Role:      role,
		Content:   text,
		Seq:       seq,
	})
	return err
}
