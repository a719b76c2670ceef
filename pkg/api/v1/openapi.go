// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"encoding/json"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// openapiSpec is hand-built rather than generated from the @Summary/@Router
// annotations scattered across this package's handlers: those annotations
// document each handler's contract for a human reader browsing the source,
// while this file builds and serves the actual document with kin-openapi.
var openapiSpec *openapi3.T

func init() {
	openapiSpec = &openapi3.T{
		OpenAPI: "3.1.1",
		Info: &openapi3.Info{
			Title:       "Gateway API",
			Description: "Capability search, tool-call forwarding, skill administration, and external-server lifecycle management for the MCP capability gateway.",
			Version:     "1.0.0",
			License: &openapi3.License{
				Name: "Apache 2.0",
				URL:  "http://www.apache.org/licenses/LICENSE-2.0.html",
			},
		},
		Servers: openapi3.Servers{
			&openapi3.Server{URL: "http://localhost:8080", Description: "Local development server"},
		},
		Paths: openapi3.NewPaths(),
		Tags: []*openapi3.Tag{
			{Name: "search", Description: "Capability search and tool-call forwarding"},
			{Name: "capabilities", Description: "Capability inventory summaries"},
			{Name: "health", Description: "Liveness and server-status reporting"},
			{Name: "skills", Description: "Skill category administration"},
			{Name: "aggregator", Description: "External MCP server lifecycle"},
		},
	}

	addSearchPaths()
	addCapabilityPaths()
	addSkillsPaths()
	addAggregatorPaths()
}

func addSearchPaths() {
	openapiSpec.Paths.Set("/api/v1beta/search", &openapi3.PathItem{
		Post: &openapi3.Operation{
			OperationID: "search",
			Summary:     "Hierarchical capability search",
			Description: "Two-stage search: narrow to candidate skills, then rank capabilities within them",
			Tags:        []string{"search"},
			RequestBody: &openapi3.RequestBodyRef{
				Value: &openapi3.RequestBody{
					Required: true,
					Content: openapi3.NewContentWithJSONSchema(&openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: map[string]*openapi3.SchemaRef{
							"query":    {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
							"strategy": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Enum: []any{"hierarchical", "direct", "skills_only"}}},
							"limit":    {Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}}},
						},
						Required: []string{"query"},
					}),
				},
			},
			Responses: openapi3.NewResponses(),
		},
	})
	search := openapiSpec.Paths.Find("/api/v1beta/search").Post
	search.Responses.Set("200", jsonResponse("OK", "searchResponse"))
	search.Responses.Set("422", errorResponse("Validation Error"))

	openapiSpec.Paths.Set("/api/v1beta/search/skills", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "searchSkills",
			Summary:     "Skills-only search",
			Description: "Search skill categories without descending into their member capabilities",
			Tags:        []string{"search"},
			Parameters: []*openapi3.ParameterRef{
				{Value: &openapi3.Parameter{Name: "query", In: "query", Required: true, Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}}},
			},
			Responses: openapi3.NewResponses(),
		},
	})
	skillSearch := openapiSpec.Paths.Find("/api/v1beta/search/skills").Get
	skillSearch.Responses.Set("200", jsonResponse("OK", "searchResponse"))

	openapiSpec.Paths.Set("/api/v1beta/tools/call", &openapi3.PathItem{
		Post: &openapi3.Operation{
			OperationID: "callTool",
			Summary:     "Forward a tool call to its owning backend",
			Tags:        []string{"search"},
			RequestBody: &openapi3.RequestBodyRef{
				Value: &openapi3.RequestBody{
					Required: true,
					Content: openapi3.NewContentWithJSONSchema(&openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: map[string]*openapi3.SchemaRef{
							"name":      {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
							"arguments": {Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}},
						},
						Required: []string{"name"},
					}),
				},
			},
			Responses: openapi3.NewResponses(),
		},
	})
	call := openapiSpec.Paths.Find("/api/v1beta/tools/call").Post
	call.Responses.Set("200", jsonResponse("OK", "callToolResponse"))
	call.Responses.Set("404", errorResponse("Not Found"))
	call.Responses.Set("499", errorResponse("Request Cancelled"))
}

func addCapabilityPaths() {
	openapiSpec.Paths.Set("/api/v1beta/capabilities", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "capabilityCounts",
			Summary:     "Capability counts",
			Description: "Aggregate counts of active tools, prompts, and resources visible to the caller",
			Tags:        []string{"capabilities"},
			Responses:   openapi3.NewResponses(),
		},
	})
	openapiSpec.Paths.Find("/api/v1beta/capabilities").Get.Responses.Set("200", jsonResponse("OK", "capabilitiesResponse"))

	openapiSpec.Paths.Set("/api/v1beta/health", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "health",
			Summary:     "Liveness and server-status summary",
			Tags:        []string{"health"},
			Responses:   openapi3.NewResponses(),
		},
	})
	openapiSpec.Paths.Find("/api/v1beta/health").Get.Responses.Set("200", jsonResponse("OK", "healthResponse"))
}

func addSkillsPaths() {
	openapiSpec.Paths.Set("/api/v1beta/skills", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listSkills",
			Summary:     "List skill categories",
			Tags:        []string{"skills"},
			Responses:   openapi3.NewResponses(),
		},
		Post: &openapi3.Operation{
			OperationID: "upsertSkill",
			Summary:     "Create or update a skill category",
			Tags:        []string{"skills"},
			Responses:   openapi3.NewResponses(),
		},
	})
	openapiSpec.Paths.Find("/api/v1beta/skills").Get.Responses.Set("200", jsonResponse("OK", "skillListResponse"))
	openapiSpec.Paths.Find("/api/v1beta/skills").Post.Responses.Set("200", jsonResponse("OK", "skillResponse"))

	openapiSpec.Paths.Set("/api/v1beta/skills/{id}/deactivate", &openapi3.PathItem{
		Post: &openapi3.Operation{
			OperationID: "deactivateSkill",
			Summary:     "Deactivate a skill category",
			Tags:        []string{"skills"},
			Parameters:  []*openapi3.ParameterRef{pathParam("id", "Skill category ID")},
			Responses:   openapi3.NewResponses(),
		},
	})
	openapiSpec.Paths.Find("/api/v1beta/skills/{id}/deactivate").Post.Responses.Set("204", &openapi3.ResponseRef{Value: &openapi3.Response{Description: stringPtr("No Content")}})

	openapiSpec.Paths.Set("/api/v1beta/skills/suggestions", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listSuggestions",
			Summary:     "List skill suggestions",
			Tags:        []string{"skills"},
			Responses:   openapi3.NewResponses(),
		},
	})
	openapiSpec.Paths.Find("/api/v1beta/skills/suggestions").Get.Responses.Set("200", jsonResponse("OK", "suggestionListResponse"))

	for _, action := range []string{"approve", "reject"} {
		path := "/api/v1beta/skills/suggestions/{id}/" + action
		openapiSpec.Paths.Set(path, &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: action + "Suggestion",
				Summary:     action + " a skill suggestion",
				Tags:        []string{"skills"},
				Parameters:  []*openapi3.ParameterRef{pathParam("id", "Suggestion ID")},
				Responses:   openapi3.NewResponses(),
			},
		})
		if action == "approve" {
			openapiSpec.Paths.Find(path).Post.Responses.Set("200", jsonResponse("OK", "skillResponse"))
		} else {
			openapiSpec.Paths.Find(path).Post.Responses.Set("204", &openapi3.ResponseRef{Value: &openapi3.Response{Description: stringPtr("No Content")}})
		}
	}
}

func addAggregatorPaths() {
	openapiSpec.Paths.Set("/api/v1beta/aggregator/servers", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listExternalServers",
			Summary:     "List external servers",
			Description: "List registered external MCP servers and their connection status",
			Tags:        []string{"aggregator"},
			Responses:   openapi3.NewResponses(),
		},
		Post: &openapi3.Operation{
			OperationID: "registerExternalServer",
			Summary:     "Register an external server",
			Description: "Register a new external MCP server and attempt to connect it",
			Tags:        []string{"aggregator"},
			Responses:   openapi3.NewResponses(),
		},
	})
	openapiSpec.Paths.Find("/api/v1beta/aggregator/servers").Get.Responses.Set("200", jsonResponse("OK", "serverListResponse"))
	openapiSpec.Paths.Find("/api/v1beta/aggregator/servers").Post.Responses.Set("201", jsonResponse("Created", "serverResponse"))

	openapiSpec.Paths.Set("/api/v1beta/aggregator/servers/{id}", &openapi3.PathItem{
		Delete: &openapi3.Operation{
			OperationID: "removeExternalServer",
			Summary:     "Remove an external server",
			Tags:        []string{"aggregator"},
			Parameters:  []*openapi3.ParameterRef{pathParam("id", "External server ID")},
			Responses:   openapi3.NewResponses(),
		},
	})
	openapiSpec.Paths.Find("/api/v1beta/aggregator/servers/{id}").Delete.Responses.Set("204", &openapi3.ResponseRef{Value: &openapi3.Response{Description: stringPtr("No Content")}})

	for _, action := range []string{"connect", "disconnect"} {
		path := "/api/v1beta/aggregator/servers/{id}/" + action
		openapiSpec.Paths.Set(path, &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: action + "ExternalServer",
				Summary:     action + " an external server",
				Tags:        []string{"aggregator"},
				Parameters:  []*openapi3.ParameterRef{pathParam("id", "External server ID")},
				Responses:   openapi3.NewResponses(),
			},
		})
		openapiSpec.Paths.Find(path).Post.Responses.Set("204", &openapi3.ResponseRef{Value: &openapi3.Response{Description: stringPtr("No Content")}})
	}
}

func pathParam(name, description string) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name: name, In: "path", Required: true, Description: description,
			Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
		},
	}
}

func jsonResponse(description, schemaName string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: stringPtr(description),
			Content: openapi3.NewContentWithJSONSchema(&openapi3.Schema{
				Type:        &openapi3.Types{"object"},
				Description: schemaName,
			}),
		},
	}
}

func errorResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: stringPtr(description),
			Content: openapi3.NewContentWithJSONSchema(&openapi3.Schema{
				Type:       &openapi3.Types{"object"},
				Properties: map[string]*openapi3.SchemaRef{"error": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}},
			}),
		},
	}
}

func stringPtr(s string) *string { return &s }

// ServeOpenAPI writes the gateway's OpenAPI 3.1 document as JSON.
func ServeOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(openapiSpec)
}
