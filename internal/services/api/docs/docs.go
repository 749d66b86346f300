// Package docs holds the OpenAPI description served by the admin API.
// Maintained by hand; keep paths in sync with the api modules' MountRoutes
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "paths": {
    "/policies": {
      "get": {
        "tags": ["policies"],
        "summary": "List all platform policies",
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/policies/{platform}": {
      "get": {
        "tags": ["policies"],
        "summary": "Fetch one platform policy",
        "parameters": [{"name": "platform", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
      },
      "put": {
        "tags": ["policies"],
        "summary": "Create or replace a platform policy",
        "parameters": [{"name": "platform", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["enabled", "min_amount_cents", "max_amount_cents"],
                "properties": {
                  "enabled": {"type": "boolean"},
                  "min_amount_cents": {"type": "integer"},
                  "max_amount_cents": {"type": "integer"},
                  "auto_accept": {"type": "boolean"},
                  "priority_tier": {"type": "integer"},
                  "accept_medium_priority": {"type": "boolean"}
                }
              }
            }
          }
        },
        "responses": {"200": {"description": "OK"}, "422": {"description": "Invalid"}}
      },
      "delete": {
        "tags": ["policies"],
        "summary": "Remove a platform policy",
        "parameters": [{"name": "platform", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"204": {"description": "No Content"}}
      }
    },
    "/prompts": {
      "get": {
        "tags": ["prompts"],
        "summary": "List confirmation prompts awaiting a reply",
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/prompts/{id}/reply": {
      "post": {
        "tags": ["prompts"],
        "summary": "Answer a pending confirmation prompt",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["accept"],
                "properties": {"accept": {"type": "boolean"}}
              }
            }
          }
        },
        "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Already resolved"}}
      }
    },
    "/outcomes": {
      "get": {
        "tags": ["outcomes"],
        "summary": "Most recent execution outcomes",
        "parameters": [{"name": "limit", "in": "query", "required": false, "schema": {"type": "integer"}}],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/meta/health": {
      "get": {
        "tags": ["meta"],
        "summary": "Health check",
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/meta/ready": {
      "get": {
        "tags": ["meta"],
        "summary": "Readiness probe with dependency checks",
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/meta/version": {
      "get": {
        "tags": ["meta"],
        "summary": "Build information",
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/meta/service": {
      "get": {
        "tags": ["meta"],
        "summary": "Service info and uptime",
        "responses": {"200": {"description": "OK"}}
      }
    }
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ordersnag admin API",
	Description:      "Local policy and confirmation surface for the ordersnag agent",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
