// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.meResponse"}}}
            }
        },
        "/v1/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dossiers"],
                "summary": "Dossier counts, urgent and recent dossiers",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.dashboardResponse"}}}
            }
        },
        "/v1/observations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dossiers"],
                "summary": "List the observation vocabulary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.observationsResponse"}}}
            }
        },
        "/v1/dossiers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dossiers"],
                "summary": "Search and page through dossiers",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "service", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "string", "name": "order", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.dossierListResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dossiers"],
                "summary": "Create a dossier",
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createDossierRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.dossierResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/dossiers/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dossiers"],
                "summary": "Get a dossier with its history",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.dossierDetailResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dossiers"],
                "summary": "Update a dossier",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateDossierRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.dossierResponse"}},
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["dossiers"],
                "summary": "Delete a dossier",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/services": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["services"],
                "summary": "List services",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.serviceResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["services"],
                "summary": "Create a service",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createServiceRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.serviceResponse"}}}
            }
        },
        "/v1/services/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["services"],
                "summary": "Get a service",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.serviceResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["services"],
                "summary": "Update a service",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateServiceRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.serviceResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["services"],
                "summary": "Delete a service",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List accounts",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.userResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create an account",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createUserRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.userResponse"}}}
            }
        },
        "/v1/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get an account",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update an account",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Delete an account",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.loginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.authResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/handler.userResponse"}}},
        "handler.meResponse": {"type": "object", "properties": {"user": {"$ref": "#/definitions/handler.userResponse"}, "permissions": {"type": "array", "items": {"type": "string"}}}},
        "handler.userResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "email": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"},
            "display_name": {"type": "string"}, "role": {"type": "string"}, "services": {"type": "array", "items": {"type": "string"}},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "handler.createUserRequest": {"type": "object", "properties": {
            "email": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"}, "password": {"type": "string"},
            "role": {"type": "string", "enum": ["agent", "chef", "responsable", "admin"]}, "services": {"type": "array", "items": {"type": "string"}}}},
        "handler.updateUserRequest": {"type": "object", "properties": {
            "email": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"}, "password": {"type": "string"},
            "role": {"type": "string"}, "services": {"type": "array", "items": {"type": "string"}}}},
        "handler.serviceResponse": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}}},
        "handler.createServiceRequest": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}}},
        "handler.updateServiceRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}}},
        "handler.historyEntryResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "timestamp": {"type": "string"}, "action": {"type": "string"}, "actor_id": {"type": "string"}, "details": {"type": "string"}}},
        "handler.createDossierRequest": {"type": "object", "properties": {
            "number": {"type": "string"}, "date": {"type": "string", "example": "2024-03-01"}, "sender": {"type": "string"}, "subject": {"type": "string"},
            "services": {"type": "array", "items": {"type": "string"}}, "status": {"type": "string", "enum": ["in_progress", "closed", "urgent"]},
            "observations": {"type": "array", "items": {"type": "string"}}, "note": {"type": "string"}}},
        "handler.updateDossierRequest": {"type": "object", "properties": {
            "number": {"type": "string"}, "date": {"type": "string"}, "sender": {"type": "string"}, "subject": {"type": "string"},
            "services": {"type": "array", "items": {"type": "string"}}, "status": {"type": "string"},
            "observations": {"type": "array", "items": {"type": "string"}}, "note": {"type": "string"}}},
        "handler.dossierResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "number": {"type": "string"}, "date": {"type": "string"}, "sender": {"type": "string"}, "subject": {"type": "string"},
            "services": {"type": "array", "items": {"type": "string"}}, "status": {"type": "string"},
            "observations": {"type": "array", "items": {"type": "string"}}, "note": {"type": "string"}, "created_by": {"type": "string"},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"},
            "history": {"type": "array", "items": {"$ref": "#/definitions/handler.historyEntryResponse"}}}},
        "handler.dossierDetailResponse": {"allOf": [
            {"$ref": "#/definitions/handler.dossierResponse"},
            {"type": "object", "properties": {"service_refs": {"type": "array", "items": {"type": "object", "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "missing": {"type": "boolean"}}}}}}]},
        "handler.dossierSummaryResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "number": {"type": "string"}, "date": {"type": "string"}, "subject": {"type": "string"},
            "status": {"type": "string"}, "services": {"type": "array", "items": {"type": "string"}}, "created_at": {"type": "string"}}},
        "handler.dossierListResponse": {"type": "object", "properties": {
            "items": {"type": "array", "items": {"$ref": "#/definitions/handler.dossierSummaryResponse"}},
            "total": {"type": "integer"}, "page": {"type": "integer"}, "limit": {"type": "integer"}, "total_pages": {"type": "integer"}}},
        "handler.dashboardResponse": {"type": "object", "properties": {
            "total": {"type": "integer"}, "by_status": {"type": "object", "additionalProperties": {"type": "integer"}},
            "urgent": {"type": "array", "items": {"$ref": "#/definitions/handler.dossierSummaryResponse"}},
            "recent": {"type": "array", "items": {"$ref": "#/definitions/handler.dossierSummaryResponse"}}}},
        "handler.observationsResponse": {"type": "object", "properties": {"observations": {"type": "array", "items": {"type": "string"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Dossier Tracking API",
	Description:      "Case records, service catalog and accounts for the regional records office.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
