package actions

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/carousel"
	"github.com/yungbote/postforge-backend/internal/content"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/types"
)

// ImageExecutor runs image actions against the generation backend and
// persists the resulting rows. Implemented by the image service.
type ImageExecutor interface {
	GenerateImage(ctx context.Context, projectID uuid.UUID, act GenerateImage) (*types.GeneratedImage, error)
	RefineImage(ctx context.Context, projectID uuid.UUID, act RefineImage) (*types.GeneratedImage, error)
	GenerateThumbnail(ctx context.Context, projectID uuid.UUID, act GenerateThumbnail) (*types.GeneratedImage, error)
}

// AssetChecker validates that an asset referenced by set_slide_image belongs
// to the project being mutated.
type AssetChecker interface {
	ImageBelongsToProject(ctx context.Context, imageID, projectID uuid.UUID) (bool, error)
}

// Target is the state a batch mutates. Output and Slides may be nil when the
// project has no content or carousel yet; actions against missing state fail
// individually without aborting the batch.
type Target struct {
	ProjectID   uuid.UUID
	Output      *types.Output
	Slides      []types.Slide
	HasCarousel bool
}

// Deferred is a regenerate_section/add_more signal the orchestrator handles
// in a follow-up generation call.
type Deferred struct {
	Action      string       `json:"action"`
	ContentType content.Type `json:"content_type"`
}

// Failure records one action that was rejected during dispatch. The rest of
// the batch still runs.
type Failure struct {
	Action string `json:"action"`
	Err    error  `json:"-"`
	Reason string `json:"reason"`
}

// Result is the outcome of dispatching one batch.
type Result struct {
	OutputChanged bool
	SlidesChanged bool
	Slides        []types.Slide
	Versions      []*types.ContentVersion
	Images        []*types.GeneratedImage
	Deferred      []Deferred
	// Notes are sentences appended to the assistant's visible reply; image
	// failures land here so they are seen rather than swallowed.
	Notes    []string
	Failures []Failure
	// appliedByCategory feeds confirmation synthesis.
	appliedByCategory map[string]int
}

// Confirmations synthesizes one minimal sentence per applied category, used
// when the model returned tool calls with no accompanying text.
func (r *Result) Confirmations() []string {
	var out []string
	if r.appliedByCategory[CategoryContent] > 0 {
		out = append(out, "Done — I've updated the content.")
	}
	if r.appliedByCategory[CategoryCarousel] > 0 {
		out = append(out, "Done — I've updated the carousel.")
	}
	if r.appliedByCategory[CategoryImage] > 0 {
		out = append(out, "Done — I've generated the image(s).")
	}
	if len(r.Deferred) > 0 {
		out = append(out, "I'm regenerating that section now.")
	}
	return out
}

// Dispatcher applies parsed batches to a Target. Actions are partitioned by
// category and each category runs independently; one failure never blocks
// the remaining actions.
type Dispatcher struct {
	log    *logger.Logger
	images ImageExecutor
	assets AssetChecker
}

func NewDispatcher(baseLog *logger.Logger, images ImageExecutor, assets AssetChecker) *Dispatcher {
	return &Dispatcher{
		log:    baseLog.With("component", "ActionDispatcher"),
		images: images,
		assets: assets,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, target Target, batch []Action) *Result {
	res := &Result{
		Slides:            target.Slides,
		appliedByCategory: map[string]int{},
	}

	for _, act := range batch {
		switch act.Category() {
		case CategoryContent:
			d.applyContent(target, act, res)
		case CategoryCarousel:
			d.applyCarousel(ctx, target, act, res)
		case CategoryImage:
			d.applyImage(ctx, target, act, res)
		case CategoryDeferred:
			d.applyDeferred(act, res)
		}
	}
	return res
}

func (d *Dispatcher) fail(res *Result, act Action, err error) {
	d.log.Warn("action rejected", "action", act.Name(), "error", err)
	res.Failures = append(res.Failures, Failure{Action: act.Name(), Err: err, Reason: err.Error()})
}

func (d *Dispatcher) applyContent(target Target, act Action, res *Result) {
	if target.Output == nil {
		d.fail(res, act, fmt.Errorf("%w: project has no output yet", errdef.ErrNotFound))
		return
	}
	o := target.Output
	switch a := act.(type) {
	case EditCard:
		old, err := content.EditItem(o, a.ContentType, a.Index, a.NewContent)
		if err != nil {
			d.fail(res, act, err)
			return
		}
		res.Versions = append(res.Versions, &types.ContentVersion{
			ProjectID:    target.ProjectID,
			ContentType:  string(a.ContentType),
			ContentIndex: a.Index,
			OldContent:   old,
			NewContent:   a.NewContent,
			EditedBy:     types.EditedByAssistant,
		})
	case RemoveCard:
		if err := content.RemoveItem(o, a.ContentType, a.Index); err != nil {
			d.fail(res, act, err)
			return
		}
	case SelectCard:
		if err := content.UpdateSelection(o, a.ContentType, a.Index); err != nil {
			d.fail(res, act, err)
			return
		}
	default:
		d.fail(res, act, fmt.Errorf("%w: %s", errdef.ErrUnsupported, act.Name()))
		return
	}
	res.OutputChanged = true
	res.appliedByCategory[CategoryContent]++
}

func (d *Dispatcher) applyCarousel(ctx context.Context, target Target, act Action, res *Result) {
	if !target.HasCarousel {
		d.fail(res, act, fmt.Errorf("%w: project has no carousel", errdef.ErrNotFound))
		return
	}
	switch a := act.(type) {
	case EditCarouselSlide:
		if err := carousel.EditSlideField(res.Slides, a.SlideIndex, a.Field, a.Value); err != nil {
			d.fail(res, act, err)
			return
		}
	case SetSlideImage:
		if d.assets != nil {
			ok, err := d.assets.ImageBelongsToProject(ctx, a.AssetID, target.ProjectID)
			if err != nil {
				d.fail(res, act, err)
				return
			}
			if !ok {
				d.fail(res, act, fmt.Errorf("%w: image %s not in project", errdef.ErrNotFound, a.AssetID))
				return
			}
		}
		if err := carousel.SetSlideImage(res.Slides, a.SlideIndex, a.AssetID); err != nil {
			d.fail(res, act, err)
			return
		}
	case RemoveSlideImage:
		if err := carousel.RemoveSlideImage(res.Slides, a.SlideIndex); err != nil {
			d.fail(res, act, err)
			return
		}
	default:
		d.fail(res, act, fmt.Errorf("%w: %s", errdef.ErrUnsupported, act.Name()))
		return
	}
	res.SlidesChanged = true
	res.appliedByCategory[CategoryCarousel]++
}

func (d *Dispatcher) applyImage(ctx context.Context, target Target, act Action, res *Result) {
	if d.images == nil {
		res.Notes = append(res.Notes, "Image generation isn't available right now.")
		return
	}

	var (
		img *types.GeneratedImage
		err error
	)
	switch a := act.(type) {
	case GenerateImage:
		img, err = d.images.GenerateImage(ctx, target.ProjectID, a)
	case RefineImage:
		img, err = d.images.RefineImage(ctx, target.ProjectID, a)
	case GenerateThumbnail:
		img, err = d.images.GenerateThumbnail(ctx, target.ProjectID, a)
	default:
		err = fmt.Errorf("%w: %s", errdef.ErrUnsupported, act.Name())
	}
	if err != nil {
		// Image failures become visible reply text instead of failing the
		// whole request.
		d.log.Warn("image action failed", "action", act.Name(), "error", err)
		res.Notes = append(res.Notes, fmt.Sprintf("I couldn't complete %s: %s.", act.Name(), err.Error()))
		res.Failures = append(res.Failures, Failure{Action: act.Name(), Err: err, Reason: err.Error()})
		return
	}
	res.Images = append(res.Images, img)
	res.appliedByCategory[CategoryImage]++
}

func (d *Dispatcher) applyDeferred(act Action, res *Result) {
	switch a := act.(type) {
	case RegenerateSection:
		res.Deferred = append(res.Deferred, Deferred{Action: a.Name(), ContentType: a.ContentType})
	case AddMore:
		res.Deferred = append(res.Deferred, Deferred{Action: a.Name(), ContentType: a.ContentType})
	}
}
