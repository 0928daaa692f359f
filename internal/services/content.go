package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/content"
	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/repos"
	"github.com/yungbote/postforge-backend/internal/types"
)

// ContentService owns generation and direct (non-chat) mutation of a
// project's content sections.
type ContentService interface {
	GenerateSection(ctx context.Context, projectID uuid.UUID, t content.Type) (*types.Output, error)
	RegenerateSection(ctx context.Context, projectID uuid.UUID, t content.Type) (*types.Output, error)
	AddMore(ctx context.Context, projectID uuid.UUID, t content.Type) (*types.Output, error)
	ResetSection(ctx context.Context, projectID uuid.UUID, t content.Type) (*types.Output, error)
	EditItem(ctx context.Context, projectID uuid.UUID, t content.Type, index int, newContent string) (*types.Output, error)
	RemoveItem(ctx context.Context, projectID uuid.UUID, t content.Type, index int) (*types.Output, error)
	Select(ctx context.Context, projectID uuid.UUID, t content.Type, index int) (*types.Output, error)
	Revert(ctx context.Context, projectID uuid.UUID, t content.Type, index int) (*types.Output, error)
	History(ctx context.Context, projectID uuid.UUID, contentType string) ([]*types.ContentVersion, error)
}

type contentService struct {
	log      *logger.Logger
	ai       AIClient
	prompts  *PromptService
	projects repos.ProjectRepo
	outputs  repos.OutputRepo
	versions repos.ContentVersionRepo
}

func NewContentService(
	baseLog *logger.Logger,
	ai AIClient,
	prompts *PromptService,
	projects repos.ProjectRepo,
	outputs repos.OutputRepo,
	versions repos.ContentVersionRepo,
) ContentService {
	return &contentService{
		log:      baseLog.With("service", "ContentService"),
		ai:       ai,
		prompts:  prompts,
		projects: projects,
		outputs:  outputs,
		versions: versions,
	}
}

func (s *contentService) load(ctx context.Context, projectID uuid.UUID) (dbctx.Context, *types.Project, *types.Output, error) {
	dbc := dbctx.Context{Ctx: ctx}
	project, err := s.projects.GetByID(dbc, projectID)
	if err != nil {
		return dbc, nil, nil, err
	}
	output, err := s.outputs.GetByProjectID(dbc, projectID)
	if err != nil {
		return dbc, nil, nil, err
	}
	return dbc, project, output, nil
}

// generate produces fresh items for a section. replaceOriginal controls the
// snapshot policy: only the first generation and an explicit reset write the
// *_original columns; regeneration keeps the existing revert target.
func (s *contentService) generate(ctx context.Context, projectID uuid.UUID, t content.Type, replaceOriginal bool) (*types.Output, error) {
	dbc, project, output, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	items, err := s.generateItems(ctx, project, output, t, GenerationCount(t))
	if err != nil {
		return nil, err
	}

	content.SetItems(output, t, items)
	if replaceOriginal || len(content.Original(output, t)) == 0 {
		content.SetOriginal(output, t, items)
	}
	// A regenerated section invalidates the previous pick.
	_ = content.UpdateSelection(output, t, types.SelectionNone)

	if err := s.outputs.Save(dbc, output); err != nil {
		return nil, err
	}
	s.log.Info("Section generated", "project_id", projectID, "section", t, "items", len(items))
	return output, nil
}

func (s *contentService) generateItems(ctx context.Context, project *types.Project, output *types.Output, t content.Type, count int) ([]string, error) {
	if t == content.TypeBody {
		hook := selectedItem(output, content.TypeHook)
		system, user := s.prompts.BodyPrompt(ctx, project, hook)
		body, err := s.ai.Complete(ctx, system, nil, user)
		if err != nil {
			return nil, err
		}
		body = strings.TrimSpace(body)
		if body == "" {
			return nil, fmt.Errorf("%w: model returned empty body", errdef.ErrUnavailable)
		}
		return []string{body}, nil
	}

	system, user := s.prompts.GenerationPrompt(ctx, project, t, count)
	reply, err := s.ai.Complete(ctx, system, nil, user)
	if err != nil {
		return nil, err
	}
	items, err := ParseJSONArray(reply)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: model returned no %s items", errdef.ErrUnavailable, t)
	}
	return items, nil
}

func selectedItem(output *types.Output, t content.Type) string {
	sel := content.SelectedIndex(output, t)
	items := content.Items(output, t)
	if sel >= 0 && sel < len(items) {
		return items[sel]
	}
	return ""
}

func (s *contentService) GenerateSection(ctx context.Context, projectID uuid.UUID, t content.Type) (*types.Output, error) {
	return s.generate(ctx, projectID, t, false)
}

func (s *contentService) RegenerateSection(ctx context.Context, projectID uuid.UUID, t content.Type) (*types.Output, error) {
	return s.generate(ctx, projectID, t, false)
}

// ResetSection discards both the working items and the original snapshot and
// generates from scratch. This is the only path that rewrites *_original
// after first generation.
func (s *contentService) ResetSection(ctx context.Context, projectID uuid.UUID, t content.Type) (*types.Output, error) {
	return s.generate(ctx, projectID, t, true)
}

func (s *contentService) AddMore(ctx context.Context, projectID uuid.UUID, t content.Type) (*types.Output, error) {
	if t == content.TypeBody {
		return nil, fmt.Errorf("%w: body is a single text, cannot add more", errdef.ErrUnsupported)
	}
	dbc, project, output, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	extra, err := s.generateItems(ctx, project, output, t, GenerationCount(t))
	if err != nil {
		return nil, err
	}
	content.AppendItems(output, t, extra)
	if err := s.outputs.Save(dbc, output); err != nil {
		return nil, err
	}
	s.log.Info("Section extended", "project_id", projectID, "section", t, "added", len(extra))
	return output, nil
}

func (s *contentService) EditItem(ctx context.Context, projectID uuid.UUID, t content.Type, index int, newContent string) (*types.Output, error) {
	dbc, _, output, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	old, err := content.EditItem(output, t, index, newContent)
	if err != nil {
		return nil, err
	}
	if err := s.outputs.Save(dbc, output); err != nil {
		return nil, err
	}
	if _, err := s.versions.Create(dbc, []*types.ContentVersion{{
		ProjectID:    projectID,
		ContentType:  string(t),
		ContentIndex: index,
		OldContent:   old,
		NewContent:   newContent,
		EditedBy:     types.EditedByUser,
	}}); err != nil {
		return nil, err
	}
	return output, nil
}

func (s *contentService) RemoveItem(ctx context.Context, projectID uuid.UUID, t content.Type, index int) (*types.Output, error) {
	dbc, _, output, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := content.RemoveItem(output, t, index); err != nil {
		return nil, err
	}
	if err := s.outputs.Save(dbc, output); err != nil {
		return nil, err
	}
	return output, nil
}

func (s *contentService) Select(ctx context.Context, projectID uuid.UUID, t content.Type, index int) (*types.Output, error) {
	dbc, _, output, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := content.UpdateSelection(output, t, index); err != nil {
		return nil, err
	}
	if err := s.outputs.Save(dbc, output); err != nil {
		return nil, err
	}
	return output, nil
}

func (s *contentService) Revert(ctx context.Context, projectID uuid.UUID, t content.Type, index int) (*types.Output, error) {
	dbc, _, output, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	old, restored, err := content.Revert(output, t, index)
	if err != nil {
		return nil, err
	}
	if err := s.outputs.Save(dbc, output); err != nil {
		return nil, err
	}
	if _, err := s.versions.Create(dbc, []*types.ContentVersion{{
		ProjectID:    projectID,
		ContentType:  string(t),
		ContentIndex: index,
		OldContent:   old,
		NewContent:   restored,
		EditedBy:     types.EditedByUser,
	}}); err != nil {
		return nil, err
	}
	return output, nil
}

func (s *contentService) History(ctx context.Context, projectID uuid.UUID, contentType string) ([]*types.ContentVersion, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if contentType == "" {
		return s.versions.GetByProjectID(dbc, projectID, 0)
	}
	if _, ok := content.ParseType(contentType); !ok {
		return nil, fmt.Errorf("%w: unknown content type %q", errdef.ErrMalformedAction, contentType)
	}
	return s.versions.GetByProjectAndType(dbc, projectID, contentType)
}
