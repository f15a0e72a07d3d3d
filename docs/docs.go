// Package docs holds the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/register": {
            "post": {
                "tags": ["Users"],
                "summary": "Register a new user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "400": {"description": "Invalid input"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Users"],
                "summary": "Log in and receive a token",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/users/me": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Delete the current account",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "User still owns boards"}
                }
            }
        },
        "/boards": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "List boards the user is a member of",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.BoardResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "Create a board owned by the current user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.CreateBoardRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.BoardResponse"}}}
            }
        },
        "/boards/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "Get a board with members, columns, tasks, projects and labels",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.BoardDetailResponse"}},
                    "403": {"description": "Not a member"},
                    "404": {"description": "Board not found"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "Rename a board",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "Delete a board and everything on it",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/boards/{id}/members": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "List board members",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Add a member by email",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/boards/{id}/columns/reorder": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Columns"],
                "summary": "Reorder all columns of a board",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Ids are not a permutation of the board's columns"}}
            }
        },
        "/tasks/{id}/move": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Move a task to an index within a column",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid position or column on another board"}}
            }
        },
        "/boards/{id}/projects": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Projects"],
                "summary": "List projects in board order, or by due date and priority with sort=due",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "sort", "in": "query", "enum": ["due"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "handler.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/handler.UserResponse"}
            }
        },
        "handler.CreateBoardRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string", "maxLength": 50}}
        },
        "handler.BoardResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "owner_id": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "handler.BoardDetailResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "owner_id": {"type": "string"},
                "owner": {"$ref": "#/definitions/handler.UserResponse"},
                "members": {"type": "array", "items": {"$ref": "#/definitions/handler.UserResponse"}}
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
	Schemes:          []string{"http"},
	Title:            "Taskboard API",
	Description:      "API for boards, columns, tasks, projects and labels shared between board members.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
