// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
)

const promptSelectCols = `
	c.id, c.name, c.description, c.schema, c.is_global, c.org_id, c.origin, c.server_id,
	c.active, c.classified, c.created_at, c.updated_at,
	p.arguments, p.template`

func scanPrompt(row pgx.CollectableRow) (Prompt, error) {
	var (
		pr           Prompt
		schema, args []byte
	)
	if err := row.Scan(
		&pr.ID, &pr.Name, &pr.Description, &schema, &pr.Visibility.IsGlobal, &pr.Visibility.OrgID,
		&pr.Origin, &pr.ServerID, &pr.Active, &pr.Classified, &pr.CreatedAt, &pr.UpdatedAt,
		&args, &pr.Template,
	); err != nil {
		return Prompt{}, err
	}
	var err error
	if pr.Schema, err = unmarshalSchema(schema); err != nil {
		return Prompt{}, err
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &pr.Arguments); err != nil {
			return Prompt{}, fmt.Errorf("registry: unmarshal prompt arguments: %w", err)
		}
	}
	return pr, nil
}

func (p *Postgres) CreatePrompt(ctx context.Context, in CreatePromptInput) (*Prompt, error) {
	argsJSON, err := json.Marshal(in.Arguments)
	if err != nil {
		return nil, fmt.Errorf("registry: marshal prompt arguments: %w", err)
	}

	id := newID("prompt")
	const capQ = `
		INSERT INTO capabilities (id, kind, name, description, is_global, org_id, origin, server_id)
		VALUES ($1, 'prompt', $2, $3, $4, $5, $6, $7)`
	const promptQ = `INSERT INTO prompts (capability_id, arguments, template) VALUES ($1, $2, $3)`

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry: begin create_prompt: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, capQ, id, in.Name, in.Description, in.Visibility.IsGlobal, in.Visibility.OrgID, in.Origin, in.ServerID); err != nil {
		if isUniqueViolation(err) {
			return nil, gwerrors.NewDuplicateNameError(fmt.Sprintf("a prompt named %q already exists in this scope", in.Name), err)
		}
		return nil, fmt.Errorf("registry: insert capability: %w", err)
	}
	if _, err := tx.Exec(ctx, promptQ, id, argsJSON, in.Template); err != nil {
		return nil, fmt.Errorf("registry: insert prompt: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("registry: commit create_prompt: %w", err)
	}

	p.cache.invalidateScope(scopeKey(in.Visibility.OrgID))
	if in.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return p.GetPrompt(ctx, id)
}

func (p *Postgres) GetPrompt(ctx context.Context, id string) (*Prompt, error) {
	q := fmt.Sprintf(`SELECT %s FROM capabilities c JOIN prompts p ON p.capability_id = c.id WHERE c.id = $1`, promptSelectCols)
	rows, err := p.pool.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("registry: get_prompt: %w", err)
	}
	defer rows.Close()

	prompts, err := pgx.CollectRows(rows, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("registry: scan prompt: %w", err)
	}
	if len(prompts) == 0 {
		return nil, gwerrors.NewNotFoundError(fmt.Sprintf("prompt %q not found", id), nil)
	}
	return &prompts[0], nil
}

func (p *Postgres) ListPrompts(ctx context.Context, f ListFilter) ([]Prompt, error) {
	key := listKey(promptsShape(f), scopeKey(f.OrgID))
	if cached, ok := p.cache.get(key); ok {
		return cached.([]Prompt), nil
	}

	var args []any
	cond := tenancyCondition(&args, f.OrgID)
	if !f.IncludeInactive {
		cond += " AND c.active = true"
	}
	q := fmt.Sprintf(`SELECT %s FROM capabilities c JOIN prompts p ON p.capability_id = c.id WHERE %s ORDER BY c.name`, promptSelectCols, cond)

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("registry: list_prompts: %w", err)
	}
	defer rows.Close()

	prompts, err := pgx.CollectRows(rows, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("registry: scan prompts: %w", err)
	}
	if prompts == nil {
		prompts = []Prompt{}
	}
	p.cache.set(key, prompts)
	return prompts, nil
}

func (p *Postgres) DeactivatePrompt(ctx context.Context, id string) error {
	prompt, err := p.GetPrompt(ctx, id)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `UPDATE capabilities SET active = false, updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("registry: deactivate_prompt: %w", err)
	}
	p.cache.invalidateScope(scopeKey(prompt.Visibility.OrgID))
	if prompt.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return nil
}

func (p *Postgres) DeletePrompt(ctx context.Context, id string) error {
	prompt, err := p.GetPrompt(ctx, id)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM capabilities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("registry: delete_prompt: %w", err)
	}
	p.cache.invalidateScope(scopeKey(prompt.Visibility.OrgID))
	if prompt.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return nil
}
