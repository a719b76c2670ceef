// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"

	"github.com/stacklok/toolhive-gateway/pkg/skills"
)

// SkillStore adapts a Registry into a skills.Store. Registry itself covers
// every persistence method skills.Store needs except ReclassifyTool, which
// requires triggering C4/C5 — a concern registry deliberately doesn't
// import, to keep the relational store free of a classifier dependency.
type SkillStore struct {
	Registry
	reclassify func(ctx context.Context, toolID string) error
}

var _ skills.Store = (*SkillStore)(nil)

// NewSkillStore builds a skills.Store backed by reg, invoking reclassify
// whenever a skill suggestion is approved for a tool.
func NewSkillStore(reg Registry, reclassify func(ctx context.Context, toolID string) error) *SkillStore {
	return &SkillStore{Registry: reg, reclassify: reclassify}
}

// ReclassifyTool implements skills.Store.
func (s *SkillStore) ReclassifyTool(ctx context.Context, toolID string) error {
	return s.reclassify(ctx, toolID)
}
