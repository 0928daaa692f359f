package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/postforge-backend/internal/carousel"
	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/render"
	"github.com/yungbote/postforge-backend/internal/repos"
	"github.com/yungbote/postforge-backend/internal/types"
	"github.com/yungbote/postforge-backend/internal/workflow"
)

// CarouselView is the carousel aggregate for the HTTP layer.
type CarouselView struct {
	Carousel *types.CarouselOutput `json:"carousel"`
	Slides   []types.Slide         `json:"slides"`
}

type CarouselService interface {
	ImportTemplate(ctx context.Context, projectID uuid.UUID, name string, files []carousel.ImportFile) (*types.CarouselTemplate, error)
	UpdateSlideZones(ctx context.Context, projectID, slideID uuid.UUID, zones []types.TextZone) ([]types.TextZone, error)
	GenerateSlides(ctx context.Context, projectID uuid.UUID) (*CarouselView, error)
	Get(ctx context.Context, projectID uuid.UUID) (*CarouselView, error)
	EditSlide(ctx context.Context, projectID uuid.UUID, index int, field, value string) (*CarouselView, error)
	ExportZIP(ctx context.Context, projectID uuid.UUID) ([]byte, error)
}

type carouselService struct {
	log       *logger.Logger
	db        *gorm.DB
	ai        AIClient
	prompts   *PromptService
	renderer  *render.SlideRenderer
	projects  repos.ProjectRepo
	outputs   repos.OutputRepo
	carousels repos.CarouselRepo
	templates repos.TemplateRepo
}

func NewCarouselService(
	baseLog *logger.Logger,
	db *gorm.DB,
	ai AIClient,
	prompts *PromptService,
	renderer *render.SlideRenderer,
	projects repos.ProjectRepo,
	outputs repos.OutputRepo,
	carousels repos.CarouselRepo,
	templates repos.TemplateRepo,
) CarouselService {
	return &carouselService{
		log:       baseLog.With("service", "CarouselService"),
		db:        db,
		ai:        ai,
		prompts:   prompts,
		renderer:  renderer,
		projects:  projects,
		outputs:   outputs,
		carousels: carousels,
		templates: templates,
	}
}

// defaultSlideCount is used when the project has no imported template to
// derive a count from.
const defaultSlideCount = 5

func (s *carouselService) requireCarouselPlatform(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	project, err := s.projects.GetByID(dbctx.Context{Ctx: ctx}, projectID)
	if err != nil {
		return nil, err
	}
	if !workflow.CarouselCapable(project.Platform) {
		return nil, fmt.Errorf("%w: %s projects have no carousel", errdef.ErrUnsupported, project.Platform)
	}
	return project, nil
}

func (s *carouselService) ImportTemplate(ctx context.Context, projectID uuid.UUID, name string, files []carousel.ImportFile) (*types.CarouselTemplate, error) {
	if _, err := s.requireCarouselPlatform(ctx, projectID); err != nil {
		return nil, err
	}
	imported, err := carousel.ImportFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Imported template"
	}
	template := &types.CarouselTemplate{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Name:       name,
		SlideCount: len(imported),
	}
	slides := make([]*types.TemplateSlide, 0, len(imported))
	for i, slide := range imported {
		slides = append(slides, &types.TemplateSlide{
			ID:          uuid.New(),
			Position:    i,
			ImageData:   slide.Image,
			Placeholder: slide.Placeholder,
			TextZones:   carousel.EncodeZones(nil),
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.templates.Create(dbc, template, slides); err != nil {
			return err
		}
		// Point the carousel at the new template, creating it if this is the
		// project's first.
		existing, err := s.carousels.GetByProjectID(dbc, projectID)
		if err != nil {
			_, err = s.carousels.Create(dbc, &types.CarouselOutput{
				ID:         uuid.New(),
				ProjectID:  projectID,
				Slides:     carousel.EncodeSlides(nil),
				TemplateID: &template.ID,
			})
			return err
		}
		existing.TemplateID = &template.ID
		return s.carousels.Save(dbc, existing)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Template imported", "project_id", projectID, "template_id", template.ID, "slides", len(imported))
	return template, nil
}

// UpdateSlideZones replaces one template slide's text zones. Invalid zones
// are silently dropped rather than failing the save.
func (s *carouselService) UpdateSlideZones(ctx context.Context, projectID, slideID uuid.UUID, zones []types.TextZone) ([]types.TextZone, error) {
	dbc := dbctx.Context{Ctx: ctx}
	template, err := s.templates.GetByProjectID(dbc, projectID)
	if err != nil {
		return nil, err
	}
	slides, err := s.templates.GetSlides(dbc, template.ID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, slide := range slides {
		if slide.ID == slideID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: template slide %s", errdef.ErrNotFound, slideID)
	}
	kept := carousel.FilterZones(zones)
	if err := s.templates.UpdateSlideZones(dbc, slideID, carousel.EncodeZones(kept)); err != nil {
		return nil, err
	}
	return kept, nil
}

func (s *carouselService) GenerateSlides(ctx context.Context, projectID uuid.UUID) (*CarouselView, error) {
	project, err := s.requireCarouselPlatform(ctx, projectID)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	output, err := s.outputs.GetByProjectID(dbc, projectID)
	if err != nil {
		return nil, err
	}

	count := defaultSlideCount
	var templateID *uuid.UUID
	if template, err := s.templates.GetByProjectID(dbc, projectID); err == nil && template.SlideCount > 0 {
		count = template.SlideCount
		templateID = &template.ID
	}

	system, user := s.prompts.SlidesPrompt(ctx, project, output, count)
	reply, err := s.ai.Complete(ctx, system, nil, user)
	if err != nil {
		return nil, err
	}
	var generated []carousel.GeneratedSlide
	if err := ParseJSONInto(reply, &generated); err != nil {
		return nil, err
	}
	if err := carousel.ValidateGenerated(generated, count); err != nil {
		return nil, err
	}
	slides := carousel.BuildSlides(generated)

	row, err := s.carousels.GetByProjectID(dbc, projectID)
	if err != nil {
		row = &types.CarouselOutput{
			ID:         uuid.New(),
			ProjectID:  projectID,
			Slides:     carousel.EncodeSlides(slides),
			TemplateID: templateID,
		}
		if _, err := s.carousels.Create(dbc, row); err != nil {
			return nil, err
		}
	} else {
		row.Slides = carousel.EncodeSlides(slides)
		if templateID != nil {
			row.TemplateID = templateID
		}
		if err := s.carousels.Save(dbc, row); err != nil {
			return nil, err
		}
	}
	s.log.Info("Slides generated", "project_id", projectID, "count", len(slides))
	return &CarouselView{Carousel: row, Slides: slides}, nil
}

func (s *carouselService) Get(ctx context.Context, projectID uuid.UUID) (*CarouselView, error) {
	row, err := s.carousels.GetByProjectID(dbctx.Context{Ctx: ctx}, projectID)
	if err != nil {
		return nil, err
	}
	return &CarouselView{Carousel: row, Slides: carousel.DecodeSlides(row.Slides)}, nil
}

func (s *carouselService) EditSlide(ctx context.Context, projectID uuid.UUID, index int, field, value string) (*CarouselView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.carousels.GetByProjectID(dbc, projectID)
	if err != nil {
		return nil, err
	}
	slides := carousel.DecodeSlides(row.Slides)
	if err := carousel.EditSlideField(slides, index, field, value); err != nil {
		return nil, err
	}
	row.Slides = carousel.EncodeSlides(slides)
	if err := s.carousels.Save(dbc, row); err != nil {
		return nil, err
	}
	return &CarouselView{Carousel: row, Slides: slides}, nil
}

// ExportZIP renders every slide to PNG and bundles them as slide_01.png,
// slide_02.png, ... in carousel order.
func (s *carouselService) ExportZIP(ctx context.Context, projectID uuid.UUID) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("%w: slide renderer not configured", errdef.ErrUnavailable)
	}
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.carousels.GetByProjectID(dbc, projectID)
	if err != nil {
		return nil, err
	}
	slides := carousel.DecodeSlides(row.Slides)
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: carousel has no slides", errdef.ErrNotFound)
	}

	var templateSlides []*types.TemplateSlide
	if row.TemplateID != nil {
		templateSlides, err = s.templates.GetSlides(dbc, *row.TemplateID)
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, slide := range slides {
		var background []byte
		var zones []types.TextZone
		if i < len(templateSlides) {
			background = templateSlides[i].ImageData
			zones = carousel.DecodeZones(templateSlides[i].TextZones)
		}
		if len(zones) == 0 {
			zones = defaultZones()
		}
		png, err := s.renderer.RenderPNG(background, zones, render.SlideText{
			Headline: slide.Headline,
			Body:     slide.Body,
			CTA:      slide.CTA,
		})
		if err != nil {
			return nil, fmt.Errorf("render slide %d: %w", i, err)
		}
		w, err := zw.Create(fmt.Sprintf("slide_%02d.png", i+1))
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(png); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	s.log.Info("Carousel exported", "project_id", projectID, "slides", len(slides))
	return buf.Bytes(), nil
}

// defaultZones is the layout used when a template slide carries no authored
// zones: headline top, body middle, CTA bottom, all centered.
func defaultZones() []types.TextZone {
	return []types.TextZone{
		{ID: "default-headline", Type: "headline", X: 90, Y: 140, Width: 900, Height: 220, FontSize: 64, Color: "#111111", TextAlign: "center"},
		{ID: "default-body", Type: "body", X: 90, Y: 420, Width: 900, Height: 380, FontSize: 40, Color: "#333333", TextAlign: "center"},
		{ID: "default-cta", Type: "cta", X: 90, Y: 860, Width: 900, Height: 140, FontSize: 48, Color: "#111111", TextAlign: "center"},
	}
}
