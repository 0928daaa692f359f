package repos

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/repos/testutil"
	"github.com/yungbote/postforge-backend/internal/types"
	"github.com/yungbote/postforge-backend/internal/workflow"
)

func TestProjectRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewProjectRepo(db, testutil.Logger(t))

	project := &types.Project{
		ID:          uuid.New(),
		Name:        "Q3 launch recap",
		Platform:    types.PlatformLinkedIn,
		CurrentStep: string(workflow.StepSetup),
		Status:      types.ProjectStatusInProgress,
		Topic:       "product launch",
	}
	if _, err := repo.Create(dbc, project); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(dbc, project.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != project.Name || got.Platform != types.PlatformLinkedIn {
		t.Fatalf("GetByID: got %+v", got)
	}

	if err := repo.UpdateFields(dbc, project.ID, map[string]any{"current_step": string(workflow.StepHooks)}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.GetByID(dbc, project.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.CurrentStep != string(workflow.StepHooks) {
		t.Fatalf("expected current_step hooks, got %q", got.CurrentStep)
	}

	if err := repo.UpdateFields(dbc, uuid.New(), map[string]any{"name": "x"}); !errors.Is(err, errdef.ErrNotFound) {
		t.Fatalf("UpdateFields on missing project: expected ErrNotFound, got %v", err)
	}

	if err := repo.FullDelete(dbc, project.ID); err != nil {
		t.Fatalf("FullDelete: %v", err)
	}
	if _, err := repo.GetByID(dbc, project.ID); !errors.Is(err, errdef.ErrNotFound) {
		t.Fatalf("GetByID after delete: expected ErrNotFound, got %v", err)
	}
}

func TestOutputRepoRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	projects := NewProjectRepo(db, testutil.Logger(t))
	outputs := NewOutputRepo(db, testutil.Logger(t))

	project := &types.Project{
		ID:          uuid.New(),
		Name:        "hooks round trip",
		Platform:    types.PlatformLinkedIn,
		CurrentStep: string(workflow.StepHooks),
		Status:      types.ProjectStatusInProgress,
	}
	if _, err := projects.Create(dbc, project); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	out := &types.Output{
		ID:                  uuid.New(),
		ProjectID:           project.ID,
		Hooks:               datatypes.JSON([]byte(`["a","b"]`)),
		HooksOriginal:       datatypes.JSON([]byte(`["a","b"]`)),
		SelectedHookIndex:   types.SelectionNone,
		SelectedIntroIndex:  types.SelectionNone,
		SelectedTitleIndex:  types.SelectionNone,
		SelectedCTAIndex:    types.SelectionNone,
		SelectedVisualIndex: types.SelectionNone,
	}
	if _, err := outputs.Create(dbc, out); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := outputs.GetByProjectID(dbc, project.ID)
	if err != nil {
		t.Fatalf("GetByProjectID: %v", err)
	}
	if string(got.Hooks) != `["a","b"]` {
		t.Fatalf("hooks column = %s", got.Hooks)
	}
	if got.SelectedHookIndex != types.SelectionNone {
		t.Fatalf("selected hook index = %d", got.SelectedHookIndex)
	}

	got.SelectedHookIndex = 1
	got.BodyContent = "draft body"
	if err := outputs.Save(dbc, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = outputs.GetByProjectID(dbc, project.ID)
	if err != nil {
		t.Fatalf("GetByProjectID after save: %v", err)
	}
	if got.SelectedHookIndex != 1 || got.BodyContent != "draft body" {
		t.Fatalf("after save: index=%d body=%q", got.SelectedHookIndex, got.BodyContent)
	}

	if _, err := outputs.GetByProjectID(dbc, uuid.New()); !errors.Is(err, errdef.ErrNotFound) {
		t.Fatalf("missing output: expected ErrNotFound, got %v", err)
	}
}

func TestMessageRepoSeqOrdering(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	projects := NewProjectRepo(db, testutil.Logger(t))
	messages := NewMessageRepo(db, testutil.Logger(t))

	project := &types.Project{
		ID:          uuid.New(),
		Name:        "chat ordering",
		Platform:    types.PlatformYouTube,
		CurrentStep: string(workflow.StepSetup),
		Status:      types.ProjectStatusInProgress,
	}
	if _, err := projects.Create(dbc, project); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	seq, err := messages.NextSeq(dbc, project.ID)
	if err != nil {
		t.Fatalf("NextSeq empty: %v", err)
	}
	if seq != 1 {
		t.Fatalf("NextSeq on empty history = %d, want 1", seq)
	}

	for i, content := range []string{"first", "second", "third"} {
		role := types.RoleUser
		if i%2 == 1 {
			role = types.RoleAssistant
		}
		if _, err := messages.Create(dbc, &types.ChatMessage{
			ID:        uuid.New(),
			ProjectID: project.ID,
			Role:      role,
			Content:   content,
			Seq:       int64(i + 1),
		}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	seq, err = messages.NextSeq(dbc, project.ID)
	if err != nil {
		t.Fatalf("NextSeq: %v", err)
	}
	if seq != 4 {
		t.Fatalf("NextSeq = %d, want 4", seq)
	}

	rows, err := messages.GetByProjectID(dbc, project.ID, 0)
	if err != nil {
		t.Fatalf("GetByProjectID: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Seq != int64(i+1) {
			t.Fatalf("message %d out of order: seq=%d", i, row.Seq)
		}
	}
}

func TestMessageRepoRecentWindow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	projects := NewProjectRepo(db, testutil.Logger(t))
	messages := NewMessageRepo(db, testutil.Logger(t))

	project := &types.Project{
		ID:          uuid.New(),
		Name:        "chat window",
		Platform:    types.PlatformLinkedIn,
		CurrentStep: string(workflow.StepSetup),
		Status:      types.ProjectStatusInProgress,
	}
	if _, err := projects.Create(dbc, project); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	for i := 0; i < 6; i++ {
		role := types.RoleUser
		if i%2 == 1 {
			role = types.RoleAssistant
		}
		if _, err := messages.Create(dbc, &types.ChatMessage{
			ID:        uuid.New(),
			ProjectID: project.ID,
			Role:      role,
			Content:   fmt.Sprintf("message %d", i+1),
			Seq:       int64(i + 1),
		}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	// The window must hold the newest messages in conversation order; if it
	// anchored on the oldest seq, the latest user turn would never reach the
	// model once the conversation outgrows the window.
	rows, err := messages.GetRecentByProjectID(dbc, project.ID, 4)
	if err != nil {
		t.Fatalf("GetRecentByProjectID: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(rows))
	}
	for i, row := range rows {
		if want := int64(i + 3); row.Seq != want {
			t.Fatalf("window row %d: seq=%d, want %d", i, row.Seq, want)
		}
	}
	if rows[len(rows)-1].Content != "message 6" {
		t.Fatalf("window must end at the newest message, got %q", rows[len(rows)-1].Content)
	}

	all, err := messages.GetRecentByProjectID(dbc, project.ID, 0)
	if err != nil {
		t.Fatalf("GetRecentByProjectID default limit: %v", err)
	}
	if len(all) != 6 || all[0].Seq != 1 {
		t.Fatalf("default limit should return the whole history ascending, got %d rows", len(all))
	}
}

func TestImageRepoBelongsToProject(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	projects := NewProjectRepo(db, testutil.Logger(t))
	images := NewImageRepo(db, testutil.Logger(t))

	mine := &types.Project{
		ID:          uuid.New(),
		Name:        "image owner",
		Platform:    types.PlatformFacebook,
		CurrentStep: string(workflow.StepVisuals),
		Status:      types.ProjectStatusInProgress,
	}
	other := &types.Project{
		ID:          uuid.New(),
		Name:        "other project",
		Platform:    types.PlatformFacebook,
		CurrentStep: string(workflow.StepVisuals),
		Status:      types.ProjectStatusInProgress,
	}
	if _, err := projects.Create(dbc, mine); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if _, err := projects.Create(dbc, other); err != nil {
		t.Fatalf("seed other project: %v", err)
	}

	img := &types.GeneratedImage{
		ID:        uuid.New(),
		ProjectID: mine.ID,
		Prompt:    "blue abstract background",
	}
	if _, err := images.Create(dbc, img); err != nil {
		t.Fatalf("Create image: %v", err)
	}

	ok, err := images.BelongsToProject(dbc, img.ID, mine.ID)
	if err != nil || !ok {
		t.Fatalf("BelongsToProject(own): ok=%v err=%v", ok, err)
	}
	ok, err = images.BelongsToProject(dbc, img.ID, other.ID)
	if err != nil || ok {
		t.Fatalf("BelongsToProject(foreign): ok=%v err=%v", ok, err)
	}
}
