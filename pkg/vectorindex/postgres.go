// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package vectorindex

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
)

// LexicalBlendWeight is the fixed weight given to the lexical (ts_rank) side
// of a hybrid search; the vector side gets (1 - LexicalBlendWeight).
const LexicalBlendWeight = 0.3

// PostgresIndex implements Index on top of pgvector-backed tables.
type PostgresIndex struct {
	pool *pgxpool.Pool
}

var _ Index = (*PostgresIndex)(nil)

// NewPostgresIndex connects to dsn, registers pgvector types, and migrates
// both collections to vector(dim) columns.
func NewPostgresIndex(ctx context.Context, dsn string, dim int) (*PostgresIndex, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: parse dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("vectorindex: ping: %w", err)
	}
	if err := Migrate(ctx, pool, dim); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresIndex{pool: pool}, nil
}

// Close releases the connection pool.
func (p *PostgresIndex) Close() {
	p.pool.Close()
}

func tableFor(c Collection) (string, error) {
	switch c {
	case CollectionTools:
		return "tool_vectors", nil
	case CollectionSkills:
		return "skill_vectors", nil
	default:
		return "", gwerrors.NewValidationError(fmt.Sprintf("unknown vector collection %q", c), nil)
	}
}

// Upsert implements Index.
func (p *PostgresIndex) Upsert(ctx context.Context, collection Collection, entry Entry) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}

	vec := pgvector.NewVector(entry.Embedding)
	var q string
	switch collection {
	case CollectionTools:
		q = fmt.Sprintf(`
			INSERT INTO %s (id, embedding, capability_id, kind, skill_ids, primary_skill_id, org_id, is_global, text_used_for_embedding, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
			ON CONFLICT (id) DO UPDATE SET
				embedding = EXCLUDED.embedding, capability_id = EXCLUDED.capability_id, kind = EXCLUDED.kind,
				skill_ids = EXCLUDED.skill_ids, primary_skill_id = EXCLUDED.primary_skill_id,
				org_id = EXCLUDED.org_id, is_global = EXCLUDED.is_global,
				text_used_for_embedding = EXCLUDED.text_used_for_embedding, updated_at = now()`, table)
		_, err = p.pool.Exec(ctx, q, entry.ID, vec, entry.CapabilityID, entry.Kind, entry.SkillIDs,
			entry.PrimarySkillID, entry.OrgID, entry.IsGlobal, entry.TextUsedForEmbedding)
	case CollectionSkills:
		q = fmt.Sprintf(`
			INSERT INTO %s (id, embedding, capability_id, tool_count, org_id, is_global, text_used_for_embedding, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			ON CONFLICT (id) DO UPDATE SET
				embedding = EXCLUDED.embedding, capability_id = EXCLUDED.capability_id, tool_count = EXCLUDED.tool_count,
				org_id = EXCLUDED.org_id, is_global = EXCLUDED.is_global,
				text_used_for_embedding = EXCLUDED.text_used_for_embedding, updated_at = now()`, table)
		_, err = p.pool.Exec(ctx, q, entry.ID, vec, entry.CapabilityID, entry.ToolCount,
			entry.OrgID, entry.IsGlobal, entry.TextUsedForEmbedding)
	}
	if err != nil {
		return fmt.Errorf("vectorindex: upsert %s %q: %w", collection, entry.ID, err)
	}
	return nil
}

// Delete implements Index.
func (p *PostgresIndex) Delete(ctx context.Context, collection Collection, id string) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id); err != nil {
		return fmt.Errorf("vectorindex: delete %s %q: %w", collection, id, err)
	}
	return nil
}

// Search implements Index.
func (p *PostgresIndex) Search(ctx context.Context, collection Collection, queryEmbedding []float32, filter Filter, opts SearchOptions) ([]Match, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	queryVec := pgvector.NewVector(queryEmbedding)
	args := []any{queryVec}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var conditions []string
	conditions = append(conditions, fmt.Sprintf("(is_global = true OR org_id = %s)", next(filter.OrgID)))
	if filter.Kind != "" {
		conditions = append(conditions, "kind = "+next(filter.Kind))
	}
	if len(filter.SkillIDs) > 0 {
		conditions = append(conditions, "skill_ids && "+next(filter.SkillIDs))
	}
	if len(filter.ServerFilter) > 0 {
		conditions = append(conditions, "capability_id = ANY("+next(filter.ServerFilter)+")")
	}
	where := "WHERE " + strings.Join(conditions, " AND ")

	scoreExpr := "1 - (embedding <=> $1)"
	if opts.Hybrid && opts.QueryText != "" {
		lexArg := next(opts.QueryText)
		scoreExpr = fmt.Sprintf(
			"(%f * (1 - (embedding <=> $1))) + (%f * ts_rank(to_tsvector('english', text_used_for_embedding), plainto_tsquery('english', %s)))",
			1-LexicalBlendWeight, LexicalBlendWeight, lexArg)
	}

	args = append(args, opts.Limit)
	limitArg := fmt.Sprintf("$%d", len(args))

	var selectCols string
	switch collection {
	case CollectionTools:
		selectCols = "id, embedding, capability_id, kind, skill_ids, primary_skill_id, org_id, is_global, text_used_for_embedding, updated_at"
	case CollectionSkills:
		selectCols = "id, embedding, capability_id, tool_count, org_id, is_global, text_used_for_embedding, updated_at"
	}

	q := fmt.Sprintf(`
		SELECT %s, %s AS score
		FROM %s
		%s
		ORDER BY score DESC, id ASC
		LIMIT %s`, selectCols, scoreExpr, table, where, limitArg)

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, gwerrors.NewSearchBackendError(fmt.Sprintf("vector search against %s failed", collection), err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			e   Entry
			vec pgvector.Vector
			m   Match
		)
		switch collection {
		case CollectionTools:
			if err := rows.Scan(&e.ID, &vec, &e.CapabilityID, &e.Kind, &e.SkillIDs, &e.PrimarySkillID,
				&e.OrgID, &e.IsGlobal, &e.TextUsedForEmbedding, &e.UpdatedAt, &m.Score); err != nil {
				return nil, fmt.Errorf("vectorindex: scan tool row: %w", err)
			}
		case CollectionSkills:
			if err := rows.Scan(&e.ID, &vec, &e.CapabilityID, &e.ToolCount,
				&e.OrgID, &e.IsGlobal, &e.TextUsedForEmbedding, &e.UpdatedAt, &m.Score); err != nil {
				return nil, fmt.Errorf("vectorindex: scan skill row: %w", err)
			}
		}
		e.Embedding = vec.Slice()
		m.Entry = e
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vectorindex: iterate rows: %w", err)
	}
	return matches, nil
}

// Centroid implements Index using pgvector's avg(vector) aggregate, pushing
// the mean computation into Postgres rather than pulling every assigned
// tool's embedding across the wire.
func (p *PostgresIndex) Centroid(ctx context.Context, skillID string) ([]float32, int, error) {
	var count int
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM tool_vectors WHERE $1 = ANY(skill_ids)`, skillID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("vectorindex: count vectors for skill %q: %w", skillID, err)
	}
	if count == 0 {
		return nil, 0, nil
	}

	var vec pgvector.Vector
	if err := p.pool.QueryRow(ctx, `SELECT avg(embedding) FROM tool_vectors WHERE $1 = ANY(skill_ids)`, skillID).Scan(&vec); err != nil {
		return nil, 0, fmt.Errorf("vectorindex: average vectors for skill %q: %w", skillID, err)
	}
	return vec.Slice(), count, nil
}
