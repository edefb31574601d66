// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {"get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}},
        "/readyz": {"get": {"tags": ["health"], "summary": "Readiness check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/api/deals": {
            "get": {"tags": ["deals"], "summary": "Stage analytics or stalled report",
                "parameters": [
                    {"type": "string", "description": "1 for the stalled report", "name": "stalled", "in": "query"},
                    {"type": "integer", "description": "staleness threshold in days", "name": "stalled_days", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}},
            "post": {"tags": ["deals"], "summary": "Ingest deals", "consumes": ["application/json"],
                "parameters": [{"description": "deal or array of deals", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"201": {"description": "Created"}, "207": {"description": "Multi-Status"}, "400": {"description": "Bad Request"}}}
        },
        "/api/deals/list": {"get": {"tags": ["deals"], "summary": "Scored deal list",
            "parameters": [
                {"type": "string", "name": "search", "in": "query"},
                {"type": "string", "name": "sort", "in": "query"},
                {"type": "string", "name": "dir", "in": "query"},
                {"type": "string", "name": "month", "in": "query"},
                {"type": "string", "name": "type", "in": "query"}
            ],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/deals/assign": {"post": {"tags": ["deals"], "summary": "Assign deals to a rep and/or territory",
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/deals/audit": {"get": {"tags": ["deals"], "summary": "Deal audit trail",
            "parameters": [{"type": "integer", "name": "id", "in": "query", "required": true}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/api/deals/search": {"post": {"tags": ["deals"], "summary": "Search deals",
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/deals/stalled/export": {"get": {"tags": ["deals"], "summary": "Export the stalled-deal report",
            "parameters": [{"type": "string", "name": "format", "in": "query"}, {"type": "integer", "name": "stalled_days", "in": "query"}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/history": {"get": {"tags": ["deals"], "summary": "Closed-deal history",
            "parameters": [{"type": "string", "name": "group", "in": "query"}],
            "responses": {"200": {"description": "OK"}}}},
        "/api/analytics/forecast": {"get": {"tags": ["analytics"], "summary": "Monthly pipeline forecast",
            "parameters": [{"type": "string", "name": "horizon", "in": "query"}, {"type": "boolean", "name": "win_rate", "in": "query"}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/analytics/forecast/dashboard": {"get": {"tags": ["analytics"], "summary": "Dashboard forecast cards", "responses": {"200": {"description": "OK"}}}},
        "/api/analytics/forecast/drilldown": {"get": {"tags": ["analytics"], "summary": "Deals behind a dashboard bucket",
            "parameters": [{"type": "string", "name": "month", "in": "query", "required": true}, {"type": "string", "name": "type", "in": "query"}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/analytics/forecast/export": {"get": {"tags": ["analytics"], "summary": "Export the forecast",
            "parameters": [{"type": "string", "name": "format", "in": "query"}, {"type": "string", "name": "horizon", "in": "query"}, {"type": "boolean", "name": "win_rate", "in": "query"}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/reps": {
            "get": {"tags": ["reps"], "summary": "List reps or get one by id", "parameters": [{"type": "integer", "name": "id", "in": "query"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["reps"], "summary": "Create or update a rep", "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}], "responses": {"201": {"description": "Created"}}},
            "delete": {"tags": ["reps"], "summary": "Delete a rep", "parameters": [{"type": "integer", "name": "id", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/territories": {
            "get": {"tags": ["territories"], "summary": "List territories with metrics or get one by id",
                "parameters": [{"type": "integer", "name": "id", "in": "query"}, {"type": "string", "name": "region", "in": "query"}, {"type": "integer", "name": "rep", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["territories"], "summary": "Create or update a territory", "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}], "responses": {"201": {"description": "Created"}}},
            "delete": {"tags": ["territories"], "summary": "Delete a territory", "parameters": [{"type": "integer", "name": "id", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/sales-reps": {"get": {"tags": ["sales-reps"], "summary": "Sales roster with refreshed deal counts", "responses": {"200": {"description": "OK"}}}},
        "/api/sales-reps/update-territories": {"put": {"tags": ["sales-reps"], "summary": "Move sales reps to a territory",
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/seed": {"post": {"tags": ["seed"], "summary": "Load demo data", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/settings/switches": {"get": {"tags": ["settings"], "summary": "List feature switches", "responses": {"200": {"description": "OK"}}}},
        "/api/settings/switches/{name}": {
            "get": {"tags": ["settings"], "summary": "Get a feature switch", "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["settings"], "summary": "Toggle a feature switch", "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}, {"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Sales Pipeline API",
	Description:      "Deal ingestion, assignment with audit trail, pipeline forecast and stalled-deal risk.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
