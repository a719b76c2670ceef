// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package vectorindex

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const ddlExtension = `CREATE EXTENSION IF NOT EXISTS vector;`

func ddlToolVectors(dim int) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS tool_vectors (
    id                      TEXT         PRIMARY KEY,
    embedding               vector(%d)   NOT NULL,
    capability_id           TEXT         NOT NULL,
    kind                    TEXT         NOT NULL,
    skill_ids               TEXT[]       NOT NULL DEFAULT '{}',
    primary_skill_id        TEXT         NOT NULL DEFAULT '',
    org_id                  TEXT         NOT NULL DEFAULT '',
    is_global               BOOLEAN      NOT NULL DEFAULT false,
    text_used_for_embedding TEXT         NOT NULL DEFAULT '',
    updated_at              TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_tool_vectors_embedding
    ON tool_vectors USING hnsw (embedding vector_cosine_ops);

CREATE INDEX IF NOT EXISTS idx_tool_vectors_fts
    ON tool_vectors USING GIN (to_tsvector('english', text_used_for_embedding));

CREATE INDEX IF NOT EXISTS idx_tool_vectors_skill_ids
    ON tool_vectors USING GIN (skill_ids);

CREATE INDEX IF NOT EXISTS idx_tool_vectors_org
    ON tool_vectors (org_id, is_global);
`, dim)
}

func ddlSkillVectors(dim int) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS skill_vectors (
    id                      TEXT         PRIMARY KEY,
    embedding               vector(%d)   NOT NULL,
    capability_id           TEXT         NOT NULL,
    tool_count              INT          NOT NULL DEFAULT 0,
    org_id                  TEXT         NOT NULL DEFAULT '',
    is_global               BOOLEAN      NOT NULL DEFAULT true,
    text_used_for_embedding TEXT         NOT NULL DEFAULT '',
    updated_at              TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_skill_vectors_embedding
    ON skill_vectors USING hnsw (embedding vector_cosine_ops);

CREATE INDEX IF NOT EXISTS idx_skill_vectors_fts
    ON skill_vectors USING GIN (to_tsvector('english', text_used_for_embedding));
`, dim)
}

// Migrate creates the vector extension and both collection tables. It is
// idempotent and safe to call on every process start.
func Migrate(ctx context.Context, pool *pgxpool.Pool, dim int) error {
	statements := []string{ddlExtension, ddlToolVectors(dim), ddlSkillVectors(dim)}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("vectorindex: migrate: %w", err)
		}
	}
	return nil
}
