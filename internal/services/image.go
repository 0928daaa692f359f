package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/actions"
	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/repos"
	"github.com/yungbote/postforge-backend/internal/types"
)

// maxProjectReferences caps how many prior project images steer a
// reference-aware render.
const maxProjectReferences = 3

// ImageService satisfies the dispatcher's ImageExecutor and AssetChecker
// boundaries and owns the generated_image lineage rows.
type ImageService interface {
	actions.ImageExecutor
	actions.AssetChecker
	Upscale(ctx context.Context, projectID, imageID uuid.UUID) (*types.GeneratedImage, error)
	Get(ctx context.Context, projectID, imageID uuid.UUID) (*types.GeneratedImage, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*types.GeneratedImage, error)
}

type imageService struct {
	log    *logger.Logger
	client ImageClient
	images repos.ImageRepo
}

func NewImageService(baseLog *logger.Logger, client ImageClient, images repos.ImageRepo) ImageService {
	return &imageService{
		log:    baseLog.With("service", "ImageService"),
		client: client,
		images: images,
	}
}

// imageSpec carries everything create needs for one render-and-persist.
type imageSpec struct {
	prompt     string
	basePrompt string
	aspect     string
	parentID   *uuid.UUID
	slot       *int
	upscaled   bool
	references [][]byte
}

func (s *imageService) GenerateImage(ctx context.Context, projectID uuid.UUID, act actions.GenerateImage) (*types.GeneratedImage, error) {
	refs, err := s.referencesFor(ctx, projectID, act.UseReferences, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, projectID, imageSpec{
		prompt:     act.Prompt,
		basePrompt: act.Prompt,
		aspect:     act.AspectRatio,
		references: refs,
	})
}

// RefineImage re-renders the parent image under a composed prompt. Ownership
// and the parent's stored bytes are checked before anything is created; a
// failed refinement leaves no rows behind. The refinement composes against
// the parent's base prompt so chained refinements never stack suffixes.
func (s *imageService) RefineImage(ctx context.Context, projectID uuid.UUID, act actions.RefineImage) (*types.GeneratedImage, error) {
	parent, err := s.ownedParent(ctx, projectID, act.ImageID)
	if err != nil {
		return nil, err
	}
	if len(parent.ImageData) == 0 {
		return nil, fmt.Errorf("%w: image %s has no stored bytes to refine", errdef.ErrUnavailable, act.ImageID)
	}
	refs := [][]byte{parent.ImageData}
	if act.UseReferences {
		more, err := s.referencesFor(ctx, projectID, true, parent.ID)
		if err != nil {
			return nil, err
		}
		refs = append(refs, more...)
	}
	base := basePromptOf(parent)
	return s.create(ctx, projectID, imageSpec{
		prompt:     fmt.Sprintf("%s. Refinement: %s", base, act.RefinementPrompt),
		basePrompt: base,
		aspect:     parent.AspectRatio,
		parentID:   &parent.ID,
		slot:       parent.ThumbnailSlot,
		references: refs,
	})
}

func (s *imageService) GenerateThumbnail(ctx context.Context, projectID uuid.UUID, act actions.GenerateThumbnail) (*types.GeneratedImage, error) {
	aspect := act.AspectRatio
	if aspect == "" {
		aspect = "16:9"
	}
	refs, err := s.referencesFor(ctx, projectID, act.UseReferences, uuid.Nil)
	if err != nil {
		return nil, err
	}
	slot := act.ThumbnailIndex
	return s.create(ctx, projectID, imageSpec{
		prompt:     act.Prompt,
		basePrompt: act.Prompt,
		aspect:     aspect,
		slot:       &slot,
		references: refs,
	})
}

// Upscale regenerates the source image with an amplified-detail prompt. The
// image backend has no true upscaling endpoint, so upscales are re-renders
// steered by the parent bytes when present, marked is_upscaled and linked to
// their parent.
func (s *imageService) Upscale(ctx context.Context, projectID, imageID uuid.UUID) (*types.GeneratedImage, error) {
	parent, err := s.ownedParent(ctx, projectID, imageID)
	if err != nil {
		return nil, err
	}
	var refs [][]byte
	if len(parent.ImageData) > 0 {
		refs = [][]byte{parent.ImageData}
	}
	base := basePromptOf(parent)
	return s.create(ctx, projectID, imageSpec{
		prompt:     fmt.Sprintf("%s. Ultra high detail, sharp focus, high resolution.", base),
		basePrompt: base,
		aspect:     parent.AspectRatio,
		parentID:   &parent.ID,
		slot:       parent.ThumbnailSlot,
		upscaled:   true,
		references: refs,
	})
}

func (s *imageService) ownedParent(ctx context.Context, projectID, imageID uuid.UUID) (*types.GeneratedImage, error) {
	parent, err := s.images.GetByID(dbctx.Context{Ctx: ctx}, imageID)
	if err != nil {
		return nil, err
	}
	if parent.ProjectID != projectID {
		return nil, fmt.Errorf("%w: image %s not in project", errdef.ErrNotFound, imageID)
	}
	return parent, nil
}

// basePromptOf returns the prompt refinements and upscales compose against.
// Rows written before base prompts were recorded fall back to the full
// prompt.
func basePromptOf(img *types.GeneratedImage) string {
	if img.BasePrompt != "" {
		return img.BasePrompt
	}
	return img.Prompt
}

// referencesFor collects the newest project images with stored bytes,
// excluding exclude, to steer a reference-aware render.
func (s *imageService) referencesFor(ctx context.Context, projectID uuid.UUID, useReferences bool, exclude uuid.UUID) ([][]byte, error) {
	if !useReferences {
		return nil, nil
	}
	rows, err := s.images.GetByProjectID(dbctx.Context{Ctx: ctx}, projectID)
	if err != nil {
		return nil, err
	}
	var refs [][]byte
	for i := len(rows) - 1; i >= 0 && len(refs) < maxProjectReferences; i-- {
		if rows[i].ID == exclude || len(rows[i].ImageData) == 0 {
			continue
		}
		refs = append(refs, rows[i].ImageData)
	}
	return refs, nil
}

func (s *imageService) create(ctx context.Context, projectID uuid.UUID, spec imageSpec) (*types.GeneratedImage, error) {
	png, err := s.client.Generate(ctx, spec.prompt, GenerateOptions{
		AspectRatio: spec.aspect,
		References:  spec.references,
	})
	if err != nil {
		return nil, err
	}
	row := &types.GeneratedImage{
		ID:            uuid.New(),
		ProjectID:     projectID,
		Prompt:        spec.prompt,
		BasePrompt:    spec.basePrompt,
		ImageData:     png.Data,
		Width:         png.Width,
		Height:        png.Height,
		Model:         png.Model,
		AspectRatio:   spec.aspect,
		IsUpscaled:    spec.upscaled,
		ThumbnailSlot: spec.slot,
		ParentImageID: spec.parentID,
	}
	if _, err := s.images.Create(dbctx.Context{Ctx: ctx}, row); err != nil {
		return nil, err
	}
	s.log.Info("Image generated", "project_id", projectID, "image_id", row.ID, "upscaled", spec.upscaled)
	return row, nil
}

func (s *imageService) ImageBelongsToProject(ctx context.Context, imageID, projectID uuid.UUID) (bool, error) {
	return s.images.BelongsToProject(dbctx.Context{Ctx: ctx}, imageID, projectID)
}

func (s *imageService) Get(ctx context.Context, projectID, imageID uuid.UUID) (*types.GeneratedImage, error) {
	img, err := s.images.GetByID(dbctx.Context{Ctx: ctx}, imageID)
	if err != nil {
		return nil, err
	}
	if img.ProjectID != projectID {
		return nil, fmt.Errorf("%w: image %s not in project", errdef.ErrNotFound, imageID)
	}
	return img, nil
}

func (s *imageService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*types.GeneratedImage, error) {
	return s.images.GetByProjectID(dbctx.Context{Ctx: ctx}, projectID)
}
