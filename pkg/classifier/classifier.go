// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package classifier assigns a newly written or changed capability to one
// to three skill categories by asking a chat-completion backend to pick
// from the active skill catalog, then validating the response strictly
// before it ever reaches the registry.
package classifier

//go:generate mockgen -destination=mocks/mock_classifier.go -package=mocks -source=classifier.go Classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stacklok/toolhive-gateway/pkg/embedding"
	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
	"github.com/stacklok/toolhive-gateway/pkg/skills"
)

// DefaultTimeout bounds how long a single classification call, including
// its retry, is allowed to run before the caller gets ClassifierError back.
const DefaultTimeout = 3 * time.Second

// CapabilityInput is what gets classified: a capability's name, description
// and an optional schema summary folded into the prompt.
type CapabilityInput struct {
	ID          string
	Name        string
	Description string
	Schema      map[string]any
}

// Result is the validated outcome of classifying one capability.
type Result struct {
	Assignments []skills.SetAssignmentInput
	Suggestion  *Suggestion
}

// Suggestion is a proposed new skill category, emitted when the model
// thinks none of the existing categories fit.
type Suggestion struct {
	ProposedID   string
	ProposedName string
	Rationale    string
}

// Classifier assigns capabilities to skill categories.
type Classifier interface {
	Classify(ctx context.Context, in CapabilityInput, catalog []skills.Category) (Result, error)
}

// LLMClassifier is the default Classifier, backed by an embedding.Client's
// Complete method.
type LLMClassifier struct {
	client  embedding.Client
	timeout time.Duration
}

// New builds an LLMClassifier. timeout <= 0 uses DefaultTimeout.
func New(client embedding.Client, timeout time.Duration) *LLMClassifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LLMClassifier{client: client, timeout: timeout}
}

var _ Classifier = (*LLMClassifier)(nil)

const systemPrompt = `You are a tool classifier for an MCP gateway. Given a capability and a
catalog of skill categories, respond with a single JSON object and nothing
else, matching this shape exactly:

{"assignments":[{"skill_id":"<id from catalog>","confidence":<0..1>}, ...up to 3],
 "suggestion":{"proposed_id":"<lowercase_snake_case>","proposed_name":"<Title Case>","rationale":"<why no catalog entry fits>"}}

Omit "suggestion" entirely if an existing category fits well. Use only
skill_id values that appear in the catalog. Never include commentary,
markdown fences, or any text outside the JSON object.`

// rawResponse is the strict decode target for the model's JSON: unknown
// fields are rejected so a malformed or hallucinated shape fails fast
// instead of silently dropping data.
type rawResponse struct {
	Assignments []rawAssignment `json:"assignments"`
	Suggestion  *rawSuggestion  `json:"suggestion"`
}

type rawAssignment struct {
	SkillID    string  `json:"skill_id"`
	Confidence float64 `json:"confidence"`
}

type rawSuggestion struct {
	ProposedID   string `json:"proposed_id"`
	ProposedName string `json:"proposed_name"`
	Rationale    string `json:"rationale"`
}

// Classify implements the classifier algorithm: build the prompt, call the
// completion backend with one retry on failure, then parse and validate the
// response. A second completion failure returns a ClassifierError, and so
// does a response that cannot be parsed (that case is not retried); callers
// are expected to absorb it and
// mark the capability is_classified=false rather than fail the write path.
func (c *LLMClassifier) Classify(ctx context.Context, in CapabilityInput, catalog []skills.Category) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userPrompt := buildPrompt(in, catalog)

	raw, err := c.client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		raw, err = c.client.Complete(ctx, systemPrompt, userPrompt)
		if err != nil {
			return Result{}, gwerrors.NewClassifierError(fmt.Sprintf("classify capability %s: completion failed twice", in.ID), err)
		}
	}

	parsed, err := parseResponse(raw)
	if err != nil {
		return Result{}, gwerrors.NewClassifierError(fmt.Sprintf("classify capability %s: invalid model response", in.ID), err)
	}

	return validate(parsed, catalog), nil
}

func buildPrompt(in CapabilityInput, catalog []skills.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Capability:\nname: %s\ndescription: %s\n", in.Name, in.Description)
	if len(in.Schema) > 0 {
		if encoded, err := json.Marshal(in.Schema); err == nil {
			fmt.Fprintf(&b, "schema: %s\n", encoded)
		}
	}
	b.WriteString("\nSkill catalog:\n")
	for _, cat := range catalog {
		if !cat.Active {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s (keywords: %s; examples: %s)\n",
			cat.ID, cat.Description, strings.Join(cat.Keywords, ", "), strings.Join(cat.ExampleTools, ", "))
	}
	return b.String()
}

func parseResponse(raw string) (rawResponse, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	dec.DisallowUnknownFields()
	var out rawResponse
	if err := dec.Decode(&out); err != nil {
		return rawResponse{}, fmt.Errorf("classifier: decode model response: %w", err)
	}
	return out, nil
}

// validate drops unknown skill ids, clamps confidences to [0, 1], dedupes
// by skill id keeping the highest confidence, and falls back to
// uncategorized when nothing survives at or above the primary floor.
func validate(raw rawResponse, catalog []skills.Category) Result {
	known := make(map[string]bool, len(catalog))
	for _, cat := range catalog {
		if cat.Active {
			known[cat.ID] = true
		}
	}

	byID := make(map[string]float64)
	for _, a := range raw.Assignments {
		if !known[a.SkillID] {
			continue
		}
		conf := a.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
		if existing, ok := byID[a.SkillID]; !ok || conf > existing {
			byID[a.SkillID] = conf
		}
	}

	assignments := make([]skills.SetAssignmentInput, 0, len(byID))
	anyAboveFloor := false
	for id, conf := range byID {
		if conf >= skills.PrimaryConfidenceFloor {
			anyAboveFloor = true
		}
		assignments = append(assignments, skills.SetAssignmentInput{SkillID: id, Confidence: conf})
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].Confidence > assignments[j].Confidence })
	if len(assignments) > 3 {
		assignments = assignments[:3]
	}
	if !anyAboveFloor {
		assignments = []skills.SetAssignmentInput{{SkillID: skills.UncategorizedID, Confidence: 1}}
	}

	result := Result{Assignments: assignments}
	if raw.Suggestion != nil && !known[raw.Suggestion.ProposedID] && raw.Suggestion.Rationale != "" && skills.ValidateID(raw.Suggestion.ProposedID) {
		result.Suggestion = &Suggestion{
			ProposedID:   raw.Suggestion.ProposedID,
			ProposedName: raw.Suggestion.ProposedName,
			Rationale:    raw.Suggestion.Rationale,
		}
	}
	return result
}
