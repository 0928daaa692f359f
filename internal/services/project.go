package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/postforge-backend/internal/content"
	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/repos"
	"github.com/yungbote/postforge-backend/internal/types"
	"github.com/yungbote/postforge-backend/internal/workflow"
)

// ProjectView is the aggregate handed to the HTTP layer: the project, its
// output, and completion state derived from the output on every read.
type ProjectView struct {
	Project        *types.Project        `json:"project"`
	Output         *types.Output         `json:"output,omitempty"`
	Steps          []string              `json:"steps"`
	CompletedSteps map[content.Type]bool `json:"completed_steps"`
	CarouselReady  bool                  `json:"carousel_ready"`
}

type ProjectService interface {
	Create(ctx context.Context, name, platform, topic, audience, tone string) (*ProjectView, error)
	Get(ctx context.Context, projectID uuid.UUID) (*ProjectView, error)
	List(ctx context.Context, limit int) ([]*types.Project, error)
	UpdateSetup(ctx context.Context, projectID uuid.UUID, topic, audience, tone *string) (*types.Project, error)
	AdvanceStep(ctx context.Context, projectID uuid.UUID) (*types.Project, error)
	PreviousStep(ctx context.Context, projectID uuid.UUID) (*types.Project, error)
	GoToStep(ctx context.Context, projectID uuid.UUID, step string) (*types.Project, error)
	UpdateStatus(ctx context.Context, projectID uuid.UUID, status string) (*types.Project, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
}

type projectService struct {
	log       *logger.Logger
	db        *gorm.DB
	projects  repos.ProjectRepo
	outputs   repos.OutputRepo
	versions  repos.ContentVersionRepo
	carousels repos.CarouselRepo
	templates repos.TemplateRepo
	images    repos.ImageRepo
	messages  repos.MessageRepo
}

func NewProjectService(
	baseLog *logger.Logger,
	db *gorm.DB,
	projects repos.ProjectRepo,
	outputs repos.OutputRepo,
	versions repos.ContentVersionRepo,
	carousels repos.CarouselRepo,
	templates repos.TemplateRepo,
	images repos.ImageRepo,
	messages repos.MessageRepo,
) ProjectService {
	return &projectService{
		log:       baseLog.With("service", "ProjectService"),
		db:        db,
		projects:  projects,
		outputs:   outputs,
		versions:  versions,
		carousels: carousels,
		templates: templates,
		images:    images,
		messages:  messages,
	}
}

var validPlatforms = map[string]bool{
	types.PlatformLinkedIn: true,
	types.PlatformYouTube:  true,
	types.PlatformFacebook: true,
}

var validStatuses = map[string]bool{
	types.ProjectStatusInProgress: true,
	types.ProjectStatusComplete:   true,
	types.ProjectStatusPublished:  true,
}

func (s *projectService) Create(ctx context.Context, name, platform, topic, audience, tone string) (*ProjectView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", errdef.ErrMalformedAction)
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	if !validPlatforms[platform] {
		return nil, fmt.Errorf("%w: unknown platform %q", errdef.ErrMalformedAction, platform)
	}

	project := &types.Project{
		ID:          uuid.New(),
		Name:        name,
		Platform:    platform,
		CurrentStep: workflow.StepSetup,
		Status:      types.ProjectStatusInProgress,
		Topic:       strings.TrimSpace(topic),
		Audience:    strings.TrimSpace(audience),
		Tone:        strings.TrimSpace(tone),
	}
	output := &types.Output{
		ID:                  uuid.New(),
		ProjectID:           project.ID,
		SelectedHookIndex:   types.SelectionNone,
		SelectedIntroIndex:  types.SelectionNone,
		SelectedTitleIndex:  types.SelectionNone,
		SelectedCTAIndex:    types.SelectionNone,
		SelectedVisualIndex: types.SelectionNone,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.projects.Create(dbc, project); err != nil {
			return err
		}
		if _, err := s.outputs.Create(dbc, output); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Project created", "project_id", project.ID, "platform", platform)
	return s.view(project, output), nil
}

func (s *projectService) Get(ctx context.Context, projectID uuid.UUID) (*ProjectView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	project, err := s.projects.GetByID(dbc, projectID)
	if err != nil {
		return nil, err
	}
	output, err := s.outputs.GetByProjectID(dbc, projectID)
	if err != nil {
		return nil, err
	}
	return s.view(project, output), nil
}

func (s *projectService) view(project *types.Project, output *types.Output) *ProjectView {
	return &ProjectView{
		Project:        project,
		Output:         output,
		Steps:          workflow.Steps(project.Platform),
		CompletedSteps: content.CompletedSteps(output),
		CarouselReady:  workflow.CarouselCapable(project.Platform),
	}
}

func (s *projectService) List(ctx context.Context, limit int) ([]*types.Project, error) {
	return s.projects.List(dbctx.Context{Ctx: ctx}, limit)
}

func (s *projectService) UpdateSetup(ctx context.Context, projectID uuid.UUID, topic, audience, tone *string) (*types.Project, error) {
	dbc := dbctx.Context{Ctx: ctx}
	fields := map[string]any{}
	if topic != nil {
		fields["topic"] = strings.TrimSpace(*topic)
	}
	if audience != nil {
		fields["audience"] = strings.TrimSpace(*audience)
	}
	if tone != nil {
		fields["tone"] = strings.TrimSpace(*tone)
	}
	if err := s.projects.UpdateFields(dbc, projectID, fields); err != nil {
		return nil, err
	}
	return s.projects.GetByID(dbc, projectID)
}

func (s *projectService) AdvanceStep(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	return s.moveStep(ctx, projectID, workflow.Next)
}

func (s *projectService) PreviousStep(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	return s.moveStep(ctx, projectID, workflow.Previous)
}

func (s *projectService) moveStep(ctx context.Context, projectID uuid.UUID, move func(platform, current string) string) (*types.Project, error) {
	dbc := dbctx.Context{Ctx: ctx}
	project, err := s.projects.GetByID(dbc, projectID)
	if err != nil {
		return nil, err
	}
	next := move(project.Platform, project.CurrentStep)
	if next == project.CurrentStep {
		return project, nil
	}
	return s.setStep(dbc, project, next)
}

// GoToStep jumps to any step the platform's workflow contains. Membership is
// the only gate; completion prerequisites do not block navigation.
func (s *projectService) GoToStep(ctx context.Context, projectID uuid.UUID, step string) (*types.Project, error) {
	dbc := dbctx.Context{Ctx: ctx}
	project, err := s.projects.GetByID(dbc, projectID)
	if err != nil {
		return nil, err
	}
	if !workflow.Valid(project.Platform, step) {
		return nil, fmt.Errorf("%w: step %q not in %s workflow", errdef.ErrMalformedAction, step, project.Platform)
	}
	if step == project.CurrentStep {
		return project, nil
	}
	return s.setStep(dbc, project, step)
}

func (s *projectService) setStep(dbc dbctx.Context, project *types.Project, step string) (*types.Project, error) {
	fields := map[string]any{"current_step": step}
	if workflow.IsComplete(project.Platform, step) && project.Status == types.ProjectStatusInProgress {
		fields["status"] = types.ProjectStatusComplete
	}
	if err := s.projects.UpdateFields(dbc, project.ID, fields); err != nil {
		return nil, err
	}
	return s.projects.GetByID(dbc, project.ID)
}

func (s *projectService) UpdateStatus(ctx context.Context, projectID uuid.UUID, status string) (*types.Project, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("%w: unknown status %q", errdef.ErrMalformedAction, status)
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.projects.UpdateFields(dbc, projectID, map[string]any{"status": status}); err != nil {
		return nil, err
	}
	return s.projects.GetByID(dbc, projectID)
}

// Delete removes the project and everything hanging off it in one
// transaction.
func (s *projectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.projects.GetByID(dbc, projectID); err != nil {
			return err
		}
		ids := []uuid.UUID{projectID}
		if err := s.messages.FullDeleteByProjectIDs(dbc, ids); err != nil {
			return err
		}
		if err := s.versions.FullDeleteByProjectIDs(dbc, ids); err != nil {
			return err
		}
		if err := s.carousels.FullDeleteByProjectIDs(dbc, ids); err != nil {
			return err
		}
		if err := s.templates.FullDeleteByProjectIDs(dbc, ids); err != nil {
			return err
		}
		if err := s.images.FullDeleteByProjectIDs(dbc, ids); err != nil {
			return err
		}
		if err := s.outputs.FullDeleteByProjectIDs(dbc, ids); err != nil {
			return err
		}
		return s.projects.FullDelete(dbc, projectID)
	})
	if err != nil {
		return err
	}
	s.log.Info("Project deleted", "project_id", projectID)
	return nil
}
