package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/actions"
	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/types"
)

type fakeImageClient struct {
	calls   int
	prompts []string
	opts    []GenerateOptions
	err     error
}

func (f *fakeImageClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*GeneratedPNG, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return &GeneratedPNG{Data: []byte("rendered"), Width: 1024, Height: 1024, Model: "fake"}, nil
}

type fakeImageRepo struct {
	rows []*types.GeneratedImage
}

func (f *fakeImageRepo) Create(dbc dbctx.Context, img *types.GeneratedImage) (*types.GeneratedImage, error) {
	f.rows = append(f.rows, img)
	return img, nil
}

func (f *fakeImageRepo) GetByID(dbc dbctx.Context, imageID uuid.UUID) (*types.GeneratedImage, error) {
	for _, r := range f.rows {
		if r.ID == imageID {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: image %s", errdef.ErrNotFound, imageID)
}

func (f *fakeImageRepo) GetByProjectID(dbc dbctx.Context, projectID uuid.UUID) ([]*types.GeneratedImage, error) {
	var out []*types.GeneratedImage
	for _, r := range f.rows {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeImageRepo) BelongsToProject(dbc dbctx.Context, imageID, projectID uuid.UUID) (bool, error) {
	for _, r := range f.rows {
		if r.ID == imageID && r.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeImageRepo) FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	return nil
}

func imageTestService(t *testing.T, repo *fakeImageRepo, client *fakeImageClient) ImageService {
	t.Helper()
	return NewImageService(cacheLogger(t), client, repo)
}

func TestRefineImageRequiresStoredBytes(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	parent := &types.GeneratedImage{
		ID:        uuid.New(),
		ProjectID: projectID,
		Prompt:    "a lighthouse at dusk",
	}
	repo := &fakeImageRepo{rows: []*types.GeneratedImage{parent}}
	client := &fakeImageClient{}
	svc := imageTestService(t, repo, client)

	_, err := svc.RefineImage(ctx, projectID, actions.RefineImage{
		ImageID:          parent.ID,
		RefinementPrompt: "make it stormy",
	})
	if !errors.Is(err, errdef.ErrUnavailable) {
		t.Fatalf("refine without stored bytes: err = %v, want ErrUnavailable", err)
	}
	if client.calls != 0 {
		t.Fatalf("backend called %d times for a byte-less parent, want 0", client.calls)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("failed refinement left %d rows, want the parent only", len(repo.rows))
	}
}

func TestRefineImagePassesParentBytes(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	parent := &types.GeneratedImage{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Prompt:      "a lighthouse at dusk",
		ImageData:   []byte("parent-bytes"),
		AspectRatio: "16:9",
	}
	repo := &fakeImageRepo{rows: []*types.GeneratedImage{parent}}
	client := &fakeImageClient{}
	svc := imageTestService(t, repo, client)

	child, err := svc.RefineImage(ctx, projectID, actions.RefineImage{
		ImageID:          parent.ID,
		RefinementPrompt: "make it stormy",
	})
	if err != nil {
		t.Fatalf("RefineImage: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("backend calls = %d, want 1", client.calls)
	}
	got := client.opts[0]
	if len(got.References) != 1 || !bytes.Equal(got.References[0], parent.ImageData) {
		t.Fatalf("backend did not receive the parent bytes as reference: %v", got.References)
	}
	if got.AspectRatio != "16:9" {
		t.Fatalf("aspect ratio = %q, want inherited 16:9", got.AspectRatio)
	}
	if child.ParentImageID == nil || *child.ParentImageID != parent.ID {
		t.Fatalf("child not linked to parent: %v", child.ParentImageID)
	}
	if child.BasePrompt != parent.Prompt {
		t.Fatalf("child base prompt = %q, want %q", child.BasePrompt, parent.Prompt)
	}
}

func TestRefineChainComposesAgainstBasePrompt(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	parent := &types.GeneratedImage{
		ID:        uuid.New(),
		ProjectID: projectID,
		Prompt:    "a lighthouse at dusk",
		ImageData: []byte("parent-bytes"),
	}
	repo := &fakeImageRepo{rows: []*types.GeneratedImage{parent}}
	client := &fakeImageClient{}
	svc := imageTestService(t, repo, client)

	child, err := svc.RefineImage(ctx, projectID, actions.RefineImage{
		ImageID:          parent.ID,
		RefinementPrompt: "make it stormy",
	})
	if err != nil {
		t.Fatalf("first refine: %v", err)
	}
	grandchild, err := svc.RefineImage(ctx, projectID, actions.RefineImage{
		ImageID:          child.ID,
		RefinementPrompt: "add seagulls",
	})
	if err != nil {
		t.Fatalf("second refine: %v", err)
	}
	if n := strings.Count(grandchild.Prompt, "Refinement:"); n != 1 {
		t.Fatalf("chained refinement accumulated %d suffixes: %q", n, grandchild.Prompt)
	}
	if !strings.HasPrefix(grandchild.Prompt, parent.Prompt) {
		t.Fatalf("chained refinement lost the base prompt: %q", grandchild.Prompt)
	}
	if grandchild.BasePrompt != parent.Prompt {
		t.Fatalf("grandchild base prompt = %q, want %q", grandchild.BasePrompt, parent.Prompt)
	}
}

func TestGenerateImageProjectReferences(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	repo := &fakeImageRepo{rows: []*types.GeneratedImage{
		{ID: uuid.New(), ProjectID: projectID, Prompt: "one", ImageData: []byte("first")},
		{ID: uuid.New(), ProjectID: projectID, Prompt: "two"},
		{ID: uuid.New(), ProjectID: projectID, Prompt: "three", ImageData: []byte("third")},
		{ID: uuid.New(), ProjectID: uuid.New(), Prompt: "foreign", ImageData: []byte("other")},
	}}
	client := &fakeImageClient{}
	svc := imageTestService(t, repo, client)

	if _, err := svc.GenerateImage(ctx, projectID, actions.GenerateImage{
		Prompt:        "a new concept",
		UseReferences: true,
	}); err != nil {
		t.Fatalf("GenerateImage with references: %v", err)
	}
	got := client.opts[0].References
	if len(got) != 2 {
		t.Fatalf("reference count = %d, want 2 (project rows with bytes only)", len(got))
	}
	if !bytes.Equal(got[0], []byte("third")) || !bytes.Equal(got[1], []byte("first")) {
		t.Fatalf("references not newest-first from this project: %q", got)
	}

	if _, err := svc.GenerateImage(ctx, projectID, actions.GenerateImage{
		Prompt: "another concept",
	}); err != nil {
		t.Fatalf("GenerateImage without references: %v", err)
	}
	if refs := client.opts[1].References; len(refs) != 0 {
		t.Fatalf("references sent without use_references: %d", len(refs))
	}
}
