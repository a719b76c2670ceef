// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const scalarHTML = `<!doctype html>
<html>
  <head>
    <title>Gateway API Reference</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>
  <body>
    <script id="api-reference" type="application/json">
    %s
    </script>
    <script>
      var configuration = {
        theme: "saturn",
        metaData: {
          title: "Gateway API",
          description: "API reference for the MCP capability gateway",
        },
        servers: [
          {
            name: "Development",
            url: "http://localhost:8080",
            description: "Local development server"
          }
        ],
        showServers: true,
        allowCustomServers: true
      }

      document.getElementById('api-reference').dataset.configuration =
        JSON.stringify(configuration)
    </script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>`

// ServeScalar serves an interactive API reference page rendered from the
// OpenAPI document in openapi.go.
func ServeScalar(w http.ResponseWriter, _ *http.Request) {
	spec, err := json.Marshal(openapiSpec)
	if err != nil {
		http.Error(w, "failed to marshal OpenAPI specification", http.StatusInternalServerError)
		return
	}

	html := fmt.Sprintf(scalarHTML, spec)
	w.Header().Set("Content-Type", "text/html")
	if _, err := w.Write([]byte(html)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
