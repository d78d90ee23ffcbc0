// Package docs registers the swagger document served at /swagger/.
// Regenerate with: swag init -g cmd/expressions-service/main.go
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
        "/": {
            "get": {
                "description": "Lists every video record whose blob still exists. Records whose blob is missing or cannot be checked are left out.",
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "List available videos",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Delete a video",
                "parameters": [
                    {"type": "string", "description": "Video ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Video deleted successfully", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Video not found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/upload": {
            "post": {
                "description": "Upload a video clip tagged with an expression type. A bearer token, when present, records the uploader.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Upload a video",
                "parameters": [
                    {"type": "file", "description": "Video file", "name": "file", "in": "formData", "required": true},
                    {"enum": ["happy", "sad", "laugh", "cry", "questioning"], "type": "string", "description": "Expression type", "name": "category", "in": "formData", "required": true},
                    {"type": "string", "description": "Title", "name": "title", "in": "formData"},
                    {"type": "string", "description": "Description", "name": "description", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Video uploaded successfully", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/expressions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "List expression types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/expressions/{category}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "List videos by expression type",
                "parameters": [
                    {"enum": ["happy", "sad", "laugh", "cry", "questioning"], "type": "string", "description": "Expression type", "name": "category", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Invalid expression type", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "No videos found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users/{user_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user profile",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users/{user_id}/videos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List videos by uploader",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "No videos found for this user.", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/signup": {
            "post": {
                "description": "Register a new user account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.SignUpRequest"}}
                ],
                "responses": {
                    "201": {"description": "User created successfully", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "User already exists", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Authenticate a user and return JWT token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"description": "User login details", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.SignInRequest"}}
                ],
                "responses": {
                    "200": {"description": "User authenticated successfully with token", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Streams video.uploaded and video.deleted events. Pass category to receive a single expression type.",
                "tags": ["events"],
                "summary": "Subscribe to catalog events",
                "parameters": [
                    {"type": "string", "description": "Expression type filter", "name": "category", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "400": {"description": "Invalid category", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/admin/cache": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Category cache statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Clear category cache",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "users.SignInRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "users.SignUpRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "username": {"type": "string", "maxLength": 50, "minLength": 3}
            }
        },
        "videos.VideoAsset": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "storage_reference": {"type": "string"},
                "storage_url": {"type": "string"},
                "title": {"type": "string"},
                "uploaded_by": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Expressions Service API",
	Description:      "Stores short video clips tagged with an emotional expression.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
