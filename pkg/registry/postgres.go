// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
)

// Postgres implements Registry on top of a pgx/v5 pool.
type Postgres struct {
	pool  *pgxpool.Pool
	cache *listCache
}

var _ Registry = (*Postgres)(nil)

// NewPostgres connects to dsn, migrates the schema, and returns a ready
// Registry.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("registry: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("registry: ping: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool, cache: newListCache()}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// uniqueViolation is postgres's SQLSTATE for a unique-constraint conflict.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func newID(kind string) string {
	return kind + "_" + uuid.NewString()
}

// tenancyCondition appends the registry's tenancy predicate — the same
// "is_global = true OR org_id = $n" rule pkg/tenancy compiles for every
// other reader — to a query under construction, returning the SQL fragment
// and mutating args.
func tenancyCondition(args *[]any, orgID string) string {
	if orgID == "" {
		return "is_global = true"
	}
	*args = append(*args, orgID)
	return fmt.Sprintf("(is_global = true OR org_id = $%d)", len(*args))
}

func marshalSchema(schema map[string]any) ([]byte, error) {
	if schema == nil {
		return nil, nil
	}
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("registry: marshal schema: %w", err)
	}
	return b, nil
}

func unmarshalSchema(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("registry: unmarshal schema: %w", err)
	}
	return out, nil
}

// --- Tools ---

func (p *Postgres) CreateTool(ctx context.Context, in CreateToolInput) (*Tool, error) {
	inputSchema, err := marshalSchema(in.InputSchema)
	if err != nil {
		return nil, err
	}
	outputSchema, err := marshalSchema(in.OutputSchema)
	if err != nil {
		return nil, err
	}

	id := newID("tool")
	const capQ = `
		INSERT INTO capabilities (id, kind, name, description, is_global, org_id, origin, server_id)
		VALUES ($1, 'tool', $2, $3, $4, $5, $6, $7)`
	const toolQ = `
		INSERT INTO tools (capability_id, input_schema, output_schema, original_name)
		VALUES ($1, $2, $3, $4)`

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry: begin create_tool: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, capQ, id, in.Name, in.Description, in.Visibility.IsGlobal, in.Visibility.OrgID, in.Origin, in.ServerID); err != nil {
		if isUniqueViolation(err) {
			return nil, gwerrors.NewDuplicateNameError(fmt.Sprintf("a tool named %q already exists in this scope", in.Name), err)
		}
		return nil, fmt.Errorf("registry: insert capability: %w", err)
	}
	if _, err := tx.Exec(ctx, toolQ, id, inputSchema, outputSchema, in.OriginalName); err != nil {
		return nil, fmt.Errorf("registry: insert tool: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("registry: commit create_tool: %w", err)
	}

	p.cache.invalidateScope(scopeKey(in.Visibility.OrgID))
	if in.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return p.GetTool(ctx, id)
}

const toolSelectCols = `
	c.id, c.name, c.description, c.schema, c.is_global, c.org_id, c.origin, c.server_id,
	c.active, c.classified, c.created_at, c.updated_at,
	t.input_schema, t.output_schema, t.original_name`

func scanTool(row pgx.CollectableRow) (Tool, error) {
	var (
		tl                          Tool
		schema, inputSch, outputSch []byte
	)
	if err := row.Scan(
		&tl.ID, &tl.Name, &tl.Description, &schema, &tl.Visibility.IsGlobal, &tl.Visibility.OrgID,
		&tl.Origin, &tl.ServerID, &tl.Active, &tl.Classified, &tl.CreatedAt, &tl.UpdatedAt,
		&inputSch, &outputSch, &tl.OriginalName,
	); err != nil {
		return Tool{}, err
	}
	var err error
	if tl.Schema, err = unmarshalSchema(schema); err != nil {
		return Tool{}, err
	}
	if tl.InputSchema, err = unmarshalSchema(inputSch); err != nil {
		return Tool{}, err
	}
	if tl.OutputSchema, err = unmarshalSchema(outputSch); err != nil {
		return Tool{}, err
	}
	return tl, nil
}

func (p *Postgres) GetTool(ctx context.Context, id string) (*Tool, error) {
	q := fmt.Sprintf(`SELECT %s FROM capabilities c JOIN tools t ON t.capability_id = c.id WHERE c.id = $1`, toolSelectCols)
	rows, err := p.pool.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("registry: get_tool: %w", err)
	}
	defer rows.Close()

	tools, err := pgx.CollectRows(rows, scanTool)
	if err != nil {
		return nil, fmt.Errorf("registry: scan tool: %w", err)
	}
	if len(tools) == 0 {
		return nil, gwerrors.NewNotFoundError(fmt.Sprintf("tool %q not found", id), nil)
	}
	return &tools[0], nil
}

func (p *Postgres) ListTools(ctx context.Context, f ListFilter) ([]Tool, error) {
	key := listKey(toolsShape(f), scopeKey(f.OrgID))
	if cached, ok := p.cache.get(key); ok {
		return cached.([]Tool), nil
	}

	var args []any
	cond := tenancyCondition(&args, f.OrgID)
	if !f.IncludeInactive {
		cond += " AND c.active = true"
	}
	q := fmt.Sprintf(`SELECT %s FROM capabilities c JOIN tools t ON t.capability_id = c.id WHERE %s ORDER BY c.name`, toolSelectCols, cond)

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("registry: list_tools: %w", err)
	}
	defer rows.Close()

	tools, err := pgx.CollectRows(rows, scanTool)
	if err != nil {
		return nil, fmt.Errorf("registry: scan tools: %w", err)
	}
	if tools == nil {
		tools = []Tool{}
	}
	p.cache.set(key, tools)
	return tools, nil
}

func (p *Postgres) UpdateTool(ctx context.Context, id string, mutate func(*Tool)) (*Tool, error) {
	current, err := p.GetTool(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(current)

	inputSchema, err := marshalSchema(current.InputSchema)
	if err != nil {
		return nil, err
	}
	outputSchema, err := marshalSchema(current.OutputSchema)
	if err != nil {
		return nil, err
	}
	schema, err := marshalSchema(current.Schema)
	if err != nil {
		return nil, err
	}

	const capQ = `UPDATE capabilities SET name = $2, description = $3, schema = $4, active = $5, updated_at = now() WHERE id = $1`
	const toolQ = `UPDATE tools SET input_schema = $2, output_schema = $3 WHERE capability_id = $1`

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry: begin update_tool: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, capQ, id, current.Name, current.Description, schema, current.Active); err != nil {
		return nil, fmt.Errorf("registry: update capability: %w", err)
	}
	if _, err := tx.Exec(ctx, toolQ, id, inputSchema, outputSchema); err != nil {
		return nil, fmt.Errorf("registry: update tool: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("registry: commit update_tool: %w", err)
	}

	p.cache.invalidateScope(scopeKey(current.Visibility.OrgID))
	if current.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return p.GetTool(ctx, id)
}

func (p *Postgres) DeactivateTool(ctx context.Context, id string) error {
	tool, err := p.GetTool(ctx, id)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `UPDATE capabilities SET active = false, updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("registry: deactivate_tool: %w", err)
	}
	p.cache.invalidateScope(scopeKey(tool.Visibility.OrgID))
	if tool.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return nil
}

func (p *Postgres) DeleteTool(ctx context.Context, id string) error {
	tool, err := p.GetTool(ctx, id)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM capabilities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("registry: delete_tool: %w", err)
	}
	p.cache.invalidateScope(scopeKey(tool.Visibility.OrgID))
	if tool.Visibility.IsGlobal {
		p.cache.invalidateAll()
	}
	return nil
}

// --- Capability state (shared by tools/prompts/resources) ---

func (p *Postgres) SetCapabilityState(ctx context.Context, id string, state CapabilityState) error {
	q := `UPDATE capabilities SET state = $2, updated_at = now(), failed_at = CASE WHEN $2 = 'failed' THEN now() ELSE failed_at END, attempts = CASE WHEN $2 = 'failed' THEN attempts + 1 ELSE attempts END WHERE id = $1`
	if _, err := p.pool.Exec(ctx, q, id, string(state)); err != nil {
		return fmt.Errorf("registry: set_capability_state: %w", err)
	}
	return nil
}

func (p *Postgres) MarkClassified(ctx context.Context, id string, classified bool) error {
	if _, err := p.pool.Exec(ctx, `UPDATE capabilities SET classified = $2, updated_at = now() WHERE id = $1`, id, classified); err != nil {
		return fmt.Errorf("registry: mark_classified: %w", err)
	}
	return nil
}
