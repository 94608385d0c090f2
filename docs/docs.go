// Package docs registers the OpenAPI document served under /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "Topina"},
        "license": {"name": "MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/players": {
            "get": {
                "produces": ["application/json"],
                "tags": ["players"],
                "summary": "List player image references",
                "parameters": [
                    {"enum": ["bulk", "manual"], "type": "string", "description": "Filter by source", "name": "source", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/store.Ref"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/players/{name}/image": {
            "get": {
                "description": "Returns the canonical id-or-url reference, its source (bulk or manual) and the rendered headshot URL.",
                "produces": ["application/json"],
                "tags": ["players"],
                "summary": "Get player image reference",
                "parameters": [
                    {"type": "string", "description": "Player display name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/store.Ref"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/coverage/latest": {
            "get": {
                "description": "Returns counts plus the unresolved and broken entries of the last validation run.",
                "produces": ["application/json"],
                "tags": ["coverage"],
                "summary": "Latest coverage run",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/store.Run"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "detail": {"type": "string"}
                    }
                }
            }
        },
        "store.Ref": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "kind": {"type": "string", "enum": ["id", "url"]},
                "value": {"type": "string"},
                "source": {"type": "string", "enum": ["bulk", "manual"]},
                "image_url": {"type": "string"}
            }
        },
        "store.Run": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "checked": {"type": "integer"},
                "resolved": {"type": "integer"},
                "unresolved": {"type": "array", "items": {"$ref": "#/definitions/coverage.Unresolved"}},
                "broken": {"type": "array", "items": {"$ref": "#/definitions/coverage.Broken"}},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "coverage.Unresolved": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "reason": {"type": "string", "enum": ["no_results", "name_mismatch"]},
                "top_candidate": {"type": "string"}
            }
        },
        "coverage.Broken": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "source": {"type": "string"},
                "url": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Topina Player Image API",
	Description:      "Canonical player name to headshot reference map and image coverage reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
