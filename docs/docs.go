// Package docs registers the OpenAPI document served under /docs.
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
        "/time/context": {
            "get": {
                "produces": ["application/json"],
                "tags": ["time"],
                "summary": "Current time context",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.TimeContextResponse"}}
                }
            }
        },
        "/time/parse": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["time"],
                "summary": "Resolve a natural-language time phrase",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.ParseTimeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.ParseTimeResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            }
        },
        "/reminders": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "Create a reminder",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.CreateReminderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.Reminder"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            }
        },
        "/reminders/upcoming": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "List reminders due soon",
                "parameters": [
                    {"type": "integer", "default": 24, "description": "Window in hours", "name": "hours", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entities.Reminder"}}}
                }
            }
        },
        "/reminders/overdue": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "List overdue reminders",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entities.Reminder"}}}
                }
            }
        },
        "/reminders/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "Reminder counts for the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.ReminderSummary"}}
                }
            }
        },
        "/reminders/proactive": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "Conversation-start digest of overdue and soon-due reminders",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.ProactiveResponse"}}
                }
            }
        },
        "/reminders/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "Get a reminder",
                "parameters": [
                    {"type": "string", "description": "Reminder ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.Reminder"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "Delete a reminder",
                "parameters": [
                    {"type": "string", "description": "Reminder ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.DeleteResponse"}}
                }
            }
        },
        "/reminders/{id}/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Recurring reminders schedule their next occurrence.",
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "Complete a reminder",
                "parameters": [
                    {"type": "string", "description": "Reminder ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.CompletionResult"}}
                }
            }
        },
        "/reminders/{id}/snooze": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "Snooze a reminder",
                "parameters": [
                    {"type": "string", "description": "Reminder ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "description": "Minutes, default 30", "schema": {"$ref": "#/definitions/ports.SnoozeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.SnoozeResponse"}}
                }
            }
        }
    },
    "definitions": {
        "entities.Reminder": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "reminder_text": {"type": "string"},
                "remind_at": {"type": "string", "format": "date-time"},
                "created_at": {"type": "string", "format": "date-time"},
                "completed": {"type": "boolean"},
                "completed_at": {"type": "string", "format": "date-time"},
                "snoozed_until": {"type": "string", "format": "date-time"},
                "snooze_count": {"type": "integer"},
                "recurrence": {"type": "string", "enum": ["daily", "weekly", "monthly", "yearly"]},
                "recurrence_end_date": {"type": "string", "format": "date-time"},
                "priority": {"type": "string", "enum": ["low", "normal", "high", "urgent"]},
                "category": {"type": "string"},
                "metadata": {"type": "object"},
                "source": {"type": "string"}
            }
        },
        "entities.CompletionResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "next_reminder_id": {"type": "string"}
            }
        },
        "entities.ReminderSummary": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "overdue_count": {"type": "integer"},
                "upcoming_soon": {"type": "integer"},
                "upcoming_today": {"type": "integer"},
                "total_active": {"type": "integer"},
                "completed_this_week": {"type": "integer"}
            }
        },
        "http.TimeContextResponse": {
            "type": "object",
            "properties": {
                "context": {"type": "object"},
                "prompt": {"type": "string"}
            }
        },
        "ports.CreateReminderRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "text": {"type": "string", "maxLength": 2000},
                "remind_at": {"type": "string", "format": "date-time"},
                "when": {"type": "string", "example": "tomorrow at 3pm"},
                "recurrence": {"type": "string", "enum": ["daily", "weekly", "monthly", "yearly"]},
                "recurrence_end_date": {"type": "string", "format": "date-time"},
                "priority": {"type": "string", "enum": ["low", "normal", "high", "urgent"]},
                "category": {"type": "string"},
                "metadata": {"type": "object"},
                "source": {"type": "string"}
            }
        },
        "ports.SnoozeRequest": {
            "type": "object",
            "properties": {
                "minutes": {"type": "integer", "minimum": 1, "maximum": 10080}
            }
        },
        "ports.ParseTimeRequest": {
            "type": "object",
            "required": ["phrase"],
            "properties": {
                "phrase": {"type": "string", "example": "next friday at 9am"}
            }
        },
        "ports.ParseTimeResponse": {
            "type": "object",
            "properties": {
                "phrase": {"type": "string"},
                "variant": {"type": "string", "enum": ["relative_offset", "named_day", "absolute", "weekday_ref"]},
                "resolves_to": {"type": "string", "format": "date-time"}
            }
        },
        "ports.ProactiveResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "ports.DeleteResponse": {
            "type": "object",
            "properties": {
                "deleted": {"type": "boolean"}
            }
        },
        "ports.SnoozeResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        },
        "ports.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "ARIA Reminders API",
	Description:      "Reminders and time context for the ARIA assistant",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
