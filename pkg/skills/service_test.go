// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package skills

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
)

type fakeStore struct {
	categories  map[string]*Category
	assignments map[string][]Assignment
	suggestions map[string]*Suggestion
	reclassified []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories:  map[string]*Category{},
		assignments: map[string][]Assignment{},
		suggestions: map[string]*Suggestion{},
	}
}

func (f *fakeStore) ListSkillCategories(_ context.Context, includeInactive bool) ([]Category, error) {
	var out []Category
	for _, c := range f.categories {
		if !includeInactive && !c.Active {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) UpsertSkillCategory(_ context.Context, in UpsertCategoryInput) (*Category, error) {
	cat := &Category{ID: in.ID, DisplayName: in.DisplayName, Description: in.Description,
		Keywords: in.Keywords, ExampleTools: in.ExampleTools, Active: true}
	f.categories[in.ID] = cat
	return cat, nil
}

func (f *fakeStore) DeactivateSkillCategory(_ context.Context, id string) error {
	f.categories[id].Active = false
	return nil
}

func (f *fakeStore) SkillCategoryExists(_ context.Context, id string) (bool, error) {
	_, ok := f.categories[id]
	return ok, nil
}

func (f *fakeStore) ReplaceAssignments(_ context.Context, toolID string, assignments []Assignment) error {
	f.assignments[toolID] = assignments
	return nil
}

func (f *fakeStore) AssignmentsForTool(_ context.Context, toolID string) ([]Assignment, error) {
	return f.assignments[toolID], nil
}

func (f *fakeStore) ListSuggestions(_ context.Context, status SuggestionStatus) ([]Suggestion, error) {
	var out []Suggestion
	for _, s := range f.suggestions {
		if status == "" || s.Status == status {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) GetSuggestion(_ context.Context, id string) (*Suggestion, error) {
	return f.suggestions[id], nil
}

func (f *fakeStore) SetSuggestionStatus(_ context.Context, id string, status SuggestionStatus) error {
	f.suggestions[id].Status = status
	return nil
}

func (f *fakeStore) ReclassifyTool(_ context.Context, toolID string) error {
	f.reclassified = append(f.reclassified, toolID)
	return nil
}

func TestUpsertCategory_ValidatesID(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeStore())

	_, err := svc.UpsertCategory(context.Background(), UpsertCategoryInput{ID: "Bad-ID", DisplayName: "x"})
	require.Error(t, err)
	require.Equal(t, gwerrors.ErrValidation, gwerrors.Type(err))
}

func TestUpsertCategory_RequiresDisplayName(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeStore())

	_, err := svc.UpsertCategory(context.Background(), UpsertCategoryInput{ID: "calendar_management"})
	require.Error(t, err)
	require.Equal(t, gwerrors.ErrValidation, gwerrors.Type(err))
}

func TestSetAssignments_PicksPrimaryAboveFloor(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeStore())

	assignments, err := svc.SetAssignments(context.Background(), "create_event", []SetAssignmentInput{
		{SkillID: "calendar_management", Confidence: 0.92},
		{SkillID: "notifications", Confidence: 0.3},
	})
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	var primaries int
	for _, a := range assignments {
		if a.Primary {
			primaries++
			require.Equal(t, "calendar_management", a.SkillID)
		}
	}
	require.Equal(t, 1, primaries)
}

func TestSetAssignments_FallsBackToUncategorized(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeStore())

	assignments, err := svc.SetAssignments(context.Background(), "obscure_tool", []SetAssignmentInput{
		{SkillID: "notifications", Confidence: 0.2},
	})
	require.NoError(t, err)

	var primaries int
	for _, a := range assignments {
		if a.Primary {
			primaries++
			require.Equal(t, UncategorizedID, a.SkillID)
		}
	}
	require.Equal(t, 1, primaries, "exactly one assignment must be primary")
}

func TestSetAssignments_EmptyInputAssignsUncategorized(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeStore())

	assignments, err := svc.SetAssignments(context.Background(), "new_tool", nil)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.Equal(t, UncategorizedID, assignments[0].SkillID)
	require.True(t, assignments[0].Primary)
}

func TestDeactivateCategory_RejectsUncategorized(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.categories[UncategorizedID] = &Category{ID: UncategorizedID, Active: true}
	svc := NewService(store)

	err := svc.DeactivateCategory(context.Background(), UncategorizedID)
	require.Error(t, err)
	require.Equal(t, gwerrors.ErrValidation, gwerrors.Type(err))
}

func TestDeactivateCategory_NotFound(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeStore())

	err := svc.DeactivateCategory(context.Background(), "ghost")
	require.Error(t, err)
	require.Equal(t, gwerrors.ErrNotFound, gwerrors.Type(err))
}

func TestApproveSuggestion(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.suggestions["sg1"] = &Suggestion{
		ID: "sg1", ProposedID: "drone_telemetry", ProposedName: "Drone Telemetry",
		SourceToolID: "read_drone_status", Status: SuggestionPending,
	}
	svc := NewService(store)

	cat, err := svc.ApproveSuggestion(context.Background(), "sg1")
	require.NoError(t, err)
	require.Equal(t, "drone_telemetry", cat.ID)
	require.Equal(t, SuggestionApproved, store.suggestions["sg1"].Status)
	require.Contains(t, store.reclassified, "read_drone_status")
}

func TestApproveSuggestion_NotPending(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.suggestions["sg1"] = &Suggestion{ID: "sg1", Status: SuggestionApproved}
	svc := NewService(store)

	_, err := svc.ApproveSuggestion(context.Background(), "sg1")
	require.Error(t, err)
	require.Equal(t, gwerrors.ErrValidation, gwerrors.Type(err))
}

func TestRejectSuggestion(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.suggestions["sg1"] = &Suggestion{ID: "sg1", Status: SuggestionPending}
	svc := NewService(store)

	err := svc.RejectSuggestion(context.Background(), "sg1")
	require.NoError(t, err)
	require.Equal(t, SuggestionRejected, store.suggestions["sg1"].Status)
}

func TestValidateID(t *testing.T) {
	t.Parallel()
	require.True(t, ValidateID("calendar_management"))
	require.True(t, ValidateID("a"))
	require.False(t, ValidateID("Calendar"))
	require.False(t, ValidateID("1calendar"))
	require.False(t, ValidateID(""))
}
