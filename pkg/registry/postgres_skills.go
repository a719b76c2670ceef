// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
	"github.com/stacklok/toolhive-gateway/pkg/skills"
)

func scanSkillCategory(row pgx.CollectableRow) (skills.Category, error) {
	var (
		cat       skills.Category
		toolCount int
	)
	if err := row.Scan(
		&cat.ID, &cat.DisplayName, &cat.Description, &cat.Keywords, &cat.ExampleTools,
		&cat.Active, &cat.CreatedAt, &cat.UpdatedAt, &toolCount,
	); err != nil {
		return skills.Category{}, err
	}
	cat.ToolCount = toolCount
	return cat, nil
}

const skillCategorySelectCols = `
	sc.id, sc.display_name, sc.description, sc.keywords, sc.example_tools, sc.active,
	sc.created_at, sc.updated_at,
	(SELECT count(*) FROM skill_assignments sa WHERE sa.skill_id = sc.id)`

func (p *Postgres) ListSkillCategories(ctx context.Context, includeInactive bool) ([]skills.Category, error) {
	q := fmt.Sprintf(`SELECT %s FROM skill_categories sc`, skillCategorySelectCols)
	if !includeInactive {
		q += " WHERE sc.active = true"
	}
	q += " ORDER BY sc.id"

	rows, err := p.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("registry: list_skill_categories: %w", err)
	}
	defer rows.Close()

	cats, err := pgx.CollectRows(rows, scanSkillCategory)
	if err != nil {
		return nil, fmt.Errorf("registry: scan skill categories: %w", err)
	}
	if cats == nil {
		cats = []skills.Category{}
	}
	return cats, nil
}

func (p *Postgres) UpsertSkillCategory(ctx context.Context, in skills.UpsertCategoryInput) (*skills.Category, error) {
	const q = `
		INSERT INTO skill_categories (id, display_name, description, keywords, example_tools)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name, description = EXCLUDED.description,
			keywords = EXCLUDED.keywords, example_tools = EXCLUDED.example_tools,
			active = true, updated_at = now()`
	if _, err := p.pool.Exec(ctx, q, in.ID, in.DisplayName, in.Description, in.Keywords, in.ExampleTools); err != nil {
		return nil, fmt.Errorf("registry: upsert_skill_category: %w", err)
	}

	sel := fmt.Sprintf(`SELECT %s FROM skill_categories sc WHERE sc.id = $1`, skillCategorySelectCols)
	rows, err := p.pool.Query(ctx, sel, in.ID)
	if err != nil {
		return nil, fmt.Errorf("registry: get_skill_category: %w", err)
	}
	defer rows.Close()

	cats, err := pgx.CollectRows(rows, scanSkillCategory)
	if err != nil {
		return nil, fmt.Errorf("registry: scan skill category: %w", err)
	}
	if len(cats) == 0 {
		return nil, gwerrors.NewNotFoundError(fmt.Sprintf("skill category %q not found after upsert", in.ID), nil)
	}
	return &cats[0], nil
}

func (p *Postgres) DeactivateSkillCategory(ctx context.Context, id string) error {
	if _, err := p.pool.Exec(ctx, `UPDATE skill_categories SET active = false, updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("registry: deactivate_skill_category: %w", err)
	}
	return nil
}

func (p *Postgres) SkillCategoryExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skill_categories WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("registry: skill_category_exists: %w", err)
	}
	return exists, nil
}

// ReplaceAssignments implements skills.Store: it removes previous
// assignments for toolID and writes the new set atomically.
func (p *Postgres) ReplaceAssignments(ctx context.Context, toolID string, assignments []skills.Assignment) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("registry: begin replace_assignments: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM skill_assignments WHERE tool_id = $1`, toolID); err != nil {
		return fmt.Errorf("registry: clear assignments: %w", err)
	}
	const insQ = `INSERT INTO skill_assignments (tool_id, skill_id, confidence, is_primary) VALUES ($1, $2, $3, $4)`
	for _, a := range assignments {
		if _, err := tx.Exec(ctx, insQ, a.ToolID, a.SkillID, a.Confidence, a.Primary); err != nil {
			return fmt.Errorf("registry: insert assignment (tool=%s skill=%s): %w", a.ToolID, a.SkillID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("registry: commit replace_assignments: %w", err)
	}
	return nil
}

func (p *Postgres) AssignmentsForTool(ctx context.Context, toolID string) ([]skills.Assignment, error) {
	const q = `SELECT tool_id, skill_id, confidence, is_primary FROM skill_assignments WHERE tool_id = $1 ORDER BY confidence DESC`
	rows, err := p.pool.Query(ctx, q, toolID)
	if err != nil {
		return nil, fmt.Errorf("registry: assignments_for_tool: %w", err)
	}
	defer rows.Close()

	assignments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (skills.Assignment, error) {
		var a skills.Assignment
		err := row.Scan(&a.ToolID, &a.SkillID, &a.Confidence, &a.Primary)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("registry: scan assignments: %w", err)
	}
	if assignments == nil {
		assignments = []skills.Assignment{}
	}
	return assignments, nil
}

func (p *Postgres) CreateSuggestion(ctx context.Context, s skills.Suggestion) (*skills.Suggestion, error) {
	id := s.ID
	if id == "" {
		id = newID("suggestion")
	}
	const q = `
		INSERT INTO skill_suggestions (id, proposed_id, proposed_name, rationale, source_tool_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := p.pool.Exec(ctx, q, id, s.ProposedID, s.ProposedName, s.Rationale, s.SourceToolID, string(skills.SuggestionPending)); err != nil {
		return nil, fmt.Errorf("registry: create_skill_suggestion: %w", err)
	}
	return p.GetSuggestion(ctx, id)
}

func scanSuggestion(row pgx.CollectableRow) (skills.Suggestion, error) {
	var (
		s      skills.Suggestion
		status string
	)
	if err := row.Scan(&s.ID, &s.ProposedID, &s.ProposedName, &s.Rationale, &s.SourceToolID, &status, &s.CreatedAt); err != nil {
		return skills.Suggestion{}, err
	}
	s.Status = skills.SuggestionStatus(status)
	return s, nil
}

const suggestionSelectCols = `id, proposed_id, proposed_name, rationale, source_tool_id, status, created_at`

func (p *Postgres) ListSuggestions(ctx context.Context, status skills.SuggestionStatus) ([]skills.Suggestion, error) {
	q := fmt.Sprintf(`SELECT %s FROM skill_suggestions`, suggestionSelectCols)
	var args []any
	if status != "" {
		q += " WHERE status = $1"
		args = append(args, string(status))
	}
	q += " ORDER BY created_at DESC"

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("registry: list_suggestions: %w", err)
	}
	defer rows.Close()

	suggestions, err := pgx.CollectRows(rows, scanSuggestion)
	if err != nil {
		return nil, fmt.Errorf("registry: scan suggestions: %w", err)
	}
	if suggestions == nil {
		suggestions = []skills.Suggestion{}
	}
	return suggestions, nil
}

func (p *Postgres) GetSuggestion(ctx context.Context, id string) (*skills.Suggestion, error) {
	q := fmt.Sprintf(`SELECT %s FROM skill_suggestions WHERE id = $1`, suggestionSelectCols)
	rows, err := p.pool.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("registry: get_suggestion: %w", err)
	}
	defer rows.Close()

	suggestions, err := pgx.CollectRows(rows, scanSuggestion)
	if err != nil {
		return nil, fmt.Errorf("registry: scan suggestion: %w", err)
	}
	if len(suggestions) == 0 {
		return nil, nil
	}
	return &suggestions[0], nil
}

func (p *Postgres) SetSuggestionStatus(ctx context.Context, id string, status skills.SuggestionStatus) error {
	if _, err := p.pool.Exec(ctx, `UPDATE skill_suggestions SET status = $2 WHERE id = $1`, id, string(status)); err != nil {
		return fmt.Errorf("registry: set_suggestion_status: %w", err)
	}
	return nil
}
