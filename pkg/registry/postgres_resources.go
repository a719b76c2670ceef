// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
)

const resourceSelectCols = `
	c.id, c.name, c.description, c.schema, c.is_global, c.org_id, c.origin, c.server_id,
	c.active, c.classified, c.created_at, c.updated_at,
	r.scheme, r.owner, r.acl`

func scanResource(row pgx.CollectableRow) (Resource, error) {
	var (
		res    Resource
		schema []byte
	)
	if err := row.Scan(
		&res.ID, &res.Name, &res.Description, &schema, &res.Visibility.IsGlobal, &res.Visibility.OrgID,
		&res.Origin, &res.ServerID, &res.Active, &res.Classified, &res.CreatedAt, &res.UpdatedAt,
		&res.Scheme, &res.Owner, &res.ACL,
	); err != nil {
		return Resource{}, err
	}
	var err error
	if res.Schema, err = unmarshalSchema(schema); err != nil {
		return Resource{}, err
	}
	return res, nil
}

func (p *Postgres) CreateResource(ctx context.Context, in CreateResourceInput) (*Resource, error) {
	id := newID("resource")
	const capQ = `
		INSERT INTO capabilities (id, kind, name, description, is_global, org_id, origin, server_id)
		VALUES ($1, 'resource', $2, $3, $4, $5, $6, $7)`
	const resQ = `INSERT INTO resources (capability_id, scheme, owner, acl) VALUES ($1, $2, $3, $4)`

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry: begin create_resource: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, capQ, id, in.Name, in.Description, in.Visibility.IsGlobal, in.Visibility.OrgID, in.Origin, in.ServerID); err != nil {
		if isUniqueViolation(err) {
			return nil, gwerrors.NewDuplicateNameError(fmt.Sprintf("a resource named %q already exists in this scope", in.Name), err)
		}
		return nil, fmt.Errorf("registry: insert capability: %w", err)
	}
	if _, err := tx.Exec(ctx, resQ, id, in.Scheme, in.Owner, in.ACL); err != nil {
		return nil, fmt.Errorf("registry: insert resource: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("registry: commit create_resource: %w", err)
	}

	p.cache.invalidateScope(scopeKey(in.Visibility.OrgID))
	if in.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return p.GetResource(ctx, id)
}

func (p *Postgres) GetResource(ctx context.Context, id string) (*Resource, error) {
	q := fmt.Sprintf(`SELECT %s FROM capabilities c JOIN resources r ON r.capability_id = c.id WHERE c.id = $1`, resourceSelectCols)
	rows, err := p.pool.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("registry: get_resource: %w", err)
	}
	defer rows.Close()

	resources, err := pgx.CollectRows(rows, scanResource)
	if err != nil {
		return nil, fmt.Errorf("registry: scan resource: %w", err)
	}
	if len(resources) == 0 {
		return nil, gwerrors.NewNotFoundError(fmt.Sprintf("resource %q not found", id), nil)
	}
	return &resources[0], nil
}

func (p *Postgres) ListResources(ctx context.Context, f ListFilter) ([]Resource, error) {
	key := listKey(resourcesShape(f), scopeKey(f.OrgID))
	if cached, ok := p.cache.get(key); ok {
		return cached.([]Resource), nil
	}

	var args []any
	cond := tenancyCondition(&args, f.OrgID)
	if !f.IncludeInactive {
		cond += " AND c.active = true"
	}
	q := fmt.Sprintf(`SELECT %s FROM capabilities c JOIN resources r ON r.capability_id = c.id WHERE %s ORDER BY c.name`, resourceSelectCols, cond)

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("registry: list_resources: %w", err)
	}
	defer rows.Close()

	resources, err := pgx.CollectRows(rows, scanResource)
	if err != nil {
		return nil, fmt.Errorf("registry: scan resources: %w", err)
	}
	if resources == nil {
		resources = []Resource{}
	}
	p.cache.set(key, resources)
	return resources, nil
}

func (p *Postgres) DeactivateResource(ctx context.Context, id string) error {
	res, err := p.GetResource(ctx, id)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `UPDATE capabilities SET active = false, updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("registry: deactivate_resource: %w", err)
	}
	p.cache.invalidateScope(scopeKey(res.Visibility.OrgID))
	if res.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return nil
}

func (p *Postgres) DeleteResource(ctx context.Context, id string) error {
	res, err := p.GetResource(ctx, id)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM capabilities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("registry: delete_resource: %w", err)
	}
	p.cache.invalidateScope(scopeKey(res.Visibility.OrgID))
	if res.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return nil
}
