// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import "github.com/stacklok/toolhive-gateway/pkg/registry"

// registerServerRequest is the wire shape for registering an external
// server.
//
//	@Description	Request to register a new external MCP server
type registerServerRequest struct {
	DisplayName string            `json:"display_name"`
	Description string            `json:"description,omitempty"`
	Transport   string            `json:"transport"`
	Command     string            `json:"command,omitempty"`
	Args        []string          `json:"args,omitempty"`
	URL         string            `json:"url,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	IsGlobal    bool              `json:"is_global,omitempty"`
}

// serverView is the wire shape of one external server record.
//
//	@Description	An external MCP server and its connection status
type serverView struct {
	ID                  string `json:"id"`
	DisplayName         string `json:"display_name"`
	Description         string `json:"description,omitempty"`
	Transport           string `json:"transport"`
	Status              string `json:"status"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
	IsGlobal            bool   `json:"is_global"`
	OrgID               string `json:"org_id,omitempty"`
}

// serverResponse wraps a single server record.
//
//	@Description	Response containing a single external server
type serverResponse struct {
	Server serverView `json:"server"`
}

// serverListResponse wraps a list of server records.
//
//	@Description	Response containing a list of external servers
type serverListResponse struct {
	Servers []serverView `json:"servers"`
}

func toServerResponse(s registry.ExternalServer) serverView {
	return serverView{
		ID:                  s.ID,
		DisplayName:         s.DisplayName,
		Description:         s.Description,
		Transport:           string(s.Transport),
		Status:              string(s.Status),
		ConsecutiveFailures: s.ConsecutiveFailures,
		IsGlobal:            s.Visibility.IsGlobal,
		OrgID:               s.Visibility.OrgID,
	}
}

func toServerResponses(servers []registry.ExternalServer) []serverView {
	out := make([]serverView, 0, len(servers))
	for _, s := range servers {
		out = append(out, toServerResponse(s))
	}
	return out
}
