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

const externalServerSelectCols = `
	id, display_name, description, transport, command, args, url, headers, status,
	last_health_probe_at, consecutive_failures, is_global, org_id, created_at, updated_at`

func scanExternalServer(row pgx.CollectableRow) (ExternalServer, error) {
	var (
		s         ExternalServer
		transport string
		status    string
		headers   []byte
	)
	if err := row.Scan(
		&s.ID, &s.DisplayName, &s.Description, &transport, &s.Command, &s.Args, &s.URL, &headers, &status,
		&s.LastHealthProbeAt, &s.ConsecutiveFailures, &s.Visibility.IsGlobal, &s.Visibility.OrgID, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return ExternalServer{}, err
	}
	s.Transport = TransportKind(transport)
	s.Status = ServerStatus(status)
	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &s.Headers); err != nil {
			return ExternalServer{}, fmt.Errorf("registry: unmarshal server headers: %w", err)
		}
	}
	return s, nil
}

func (p *Postgres) CreateExternalServer(ctx context.Context, s ExternalServer) (*ExternalServer, error) {
	id := s.ID
	if id == "" {
		id = newID("server")
	}
	headers, err := json.Marshal(s.Headers)
	if err != nil {
		return nil, fmt.Errorf("registry: marshal server headers: %w", err)
	}
	status := s.Status
	if status == "" {
		status = ServerPending
	}

	const q = `
		INSERT INTO external_servers (id, display_name, description, transport, command, args, url, headers, status, is_global, org_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = p.pool.Exec(ctx, q, id, s.DisplayName, s.Description, string(s.Transport), s.Command, s.Args, s.URL, headers,
		string(status), s.Visibility.IsGlobal, s.Visibility.OrgID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, gwerrors.NewDuplicateNameError(fmt.Sprintf("an external server named %q already exists", s.DisplayName), err)
		}
		return nil, fmt.Errorf("registry: create_external_server: %w", err)
	}

	p.cache.invalidateScope(scopeKey(s.Visibility.OrgID))
	if s.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return p.GetExternalServer(ctx, id)
}

func (p *Postgres) GetExternalServer(ctx context.Context, id string) (*ExternalServer, error) {
	q := fmt.Sprintf(`SELECT %s FROM external_servers WHERE id = $1`, externalServerSelectCols)
	rows, err := p.pool.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("registry: get_external_server: %w", err)
	}
	defer rows.Close()

	servers, err := pgx.CollectRows(rows, scanExternalServer)
	if err != nil {
		return nil, fmt.Errorf("registry: scan external server: %w", err)
	}
	if len(servers) == 0 {
		return nil, gwerrors.NewNotFoundError(fmt.Sprintf("external server %q not found", id), nil)
	}
	return &servers[0], nil
}

func (p *Postgres) ListExternalServers(ctx context.Context, f ListFilter) ([]ExternalServer, error) {
	key := listKey(externalServersShape(f), scopeKey(f.OrgID))
	if cached, ok := p.cache.get(key); ok {
		return cached.([]ExternalServer), nil
	}

	var args []any
	cond := tenancyCondition(&args, f.OrgID)
	q := fmt.Sprintf(`SELECT %s FROM external_servers WHERE %s ORDER BY display_name`, externalServerSelectCols, cond)

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("registry: list_external_servers: %w", err)
	}
	defer rows.Close()

	servers, err := pgx.CollectRows(rows, scanExternalServer)
	if err != nil {
		return nil, fmt.Errorf("registry: scan external servers: %w", err)
	}
	if servers == nil {
		servers = []ExternalServer{}
	}
	p.cache.set(key, servers)
	return servers, nil
}

func (p *Postgres) SetExternalServerStatus(ctx context.Context, id string, status ServerStatus, consecutiveFailures int) error {
	const q = `UPDATE external_servers SET status = $2, consecutive_failures = $3, last_health_probe_at = now(), updated_at = now() WHERE id = $1`
	if _, err := p.pool.Exec(ctx, q, id, string(status), consecutiveFailures); err != nil {
		return fmt.Errorf("registry: set_external_server_status: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteExternalServer(ctx context.Context, id string) error {
	server, err := p.GetExternalServer(ctx, id)
	if err != nil {
		return err
	}
	// Deleting the server cascades to its discovered tools via
	// capabilities.server_id — those rows are removed in the same
	// transaction so no orphaned tool ever outlives its owning server.
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("registry: begin delete_external_server: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM capabilities WHERE server_id = $1`, id); err != nil {
		return fmt.Errorf("registry: delete server's tools: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM external_servers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("registry: delete_external_server: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("registry: commit delete_external_server: %w", err)
	}

	p.cache.invalidateScope(scopeKey(server.Visibility.OrgID))
	if server.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return nil
}
