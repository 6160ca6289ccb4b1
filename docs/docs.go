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
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/footprints": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Footprints"],
                "summary": "Compute and save a footprint",
                "operationId": "computeFootprint",
                "parameters": [
                    {"type": "string", "description": "Replay-safe retry key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Lifestyle inputs", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.FootprintRequest"}}
                ],
                "responses": {
                    "200": {"description": "Computed, not saved", "schema": {"$ref": "#/definitions/handlers.ComputeResponse"}},
                    "201": {"description": "Saved", "schema": {"$ref": "#/definitions/handlers.ComputeResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/footprints/estimate": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Footprints"],
                "summary": "Estimate a footprint without saving",
                "operationId": "estimateFootprint",
                "parameters": [
                    {"description": "Lifestyle inputs", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.FootprintRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.EstimateResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "List footprint history",
                "operationId": "listHistory",
                "parameters": [
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HistoryResponse"}, "headers": {"ETag": {"type": "string", "description": "Weak ETag for the current log"}}},
                    "304": {"description": "Not Modified"},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["History"],
                "summary": "Delete all history",
                "operationId": "clearHistory",
                "parameters": [
                    {"type": "boolean", "description": "Must be true", "name": "confirm", "in": "query", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Confirmation missing", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/history/table": {
            "get": {
                "produces": ["application/json"], "tags": ["History"], "summary": "History as table rows", "operationId": "historyTable",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TableResponse"}}}
            }
        },
        "/history/chart": {
            "get": {
                "produces": ["application/json"], "tags": ["History"], "summary": "History as chart points", "operationId": "historyChart",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ChartResponse"}}}
            }
        },
        "/history/summary": {
            "get": {
                "produces": ["application/json"], "tags": ["History"], "summary": "Aggregates over history", "operationId": "historySummary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/history.Summary"}}}
            }
        },
        "/history/export": {
            "get": {
                "produces": ["application/json"], "tags": ["History"], "summary": "Download history", "operationId": "exportHistory",
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/assistant/chat": {
            "post": {
                "consumes": ["application/json"], "produces": ["application/json"], "tags": ["Assistant"],
                "summary": "Ask the eco assistant", "operationId": "assistantChat",
                "parameters": [{"description": "Prompt", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ChatRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ChatResponse"}},
                    "400": {"description": "Empty prompt", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "413": {"description": "Prompt too long", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Assistant unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/reminders": {
            "get": {
                "produces": ["application/json"], "tags": ["Reminders"], "summary": "List pending reminders", "operationId": "listReminders",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RemindersResponse"}}}
            },
            "post": {
                "consumes": ["application/json"], "produces": ["application/json"], "tags": ["Reminders"],
                "summary": "Schedule a reminder", "operationId": "scheduleReminder",
                "parameters": [{"description": "Reminder", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ScheduleReminderRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/reminder.Reminder"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/reminders/{id}": {
            "delete": {
                "tags": ["Reminders"], "summary": "Cancel a pending reminder", "operationId": "cancelReminder",
                "parameters": [{"type": "string", "format": "uuid", "description": "Reminder ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not pending", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.FootprintResult": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "electricityKWhPerMonth": {"type": "number"},
                "waterLitresPerDay": {"type": "number"},
                "distanceKmPerDay": {"type": "number"},
                "transportMode": {"type": "string", "enum": ["walk_bike", "two_wheeler", "car", "bus", "train", "electric_vehicle"]},
                "treesOwned": {"type": "integer"},
                "hasSolar": {"type": "boolean"},
                "segregatesWaste": {"type": "boolean"},
                "reusesItems": {"type": "boolean"},
                "lightUsageDiscipline": {"type": "string", "enum": ["always", "sometimes", "never"]},
                "totalGramsCO2": {"type": "number"},
                "tier": {"type": "string", "enum": ["excellent", "good", "moderate", "poor", "very_poor"]}
            }
        },
        "handlers.FootprintRequest": {
            "type": "object",
            "properties": {
                "electricityKWhPerMonth": {"type": "string", "example": "300"},
                "waterLitresPerDay": {"type": "string", "example": "150"},
                "distanceKmPerDay": {"type": "string", "example": "20"},
                "transportMode": {"type": "string", "example": "car"},
                "treesOwned": {"type": "string", "example": "2"},
                "hasSolar": {"type": "string", "example": "no"},
                "segregatesWaste": {"type": "string", "example": "yes"},
                "reusesItems": {"type": "string", "example": "yes"},
                "lightUsageDiscipline": {"type": "string", "example": "sometimes"}
            }
        },
        "handlers.ComputeResponse": {
            "type": "object",
            "properties": {
                "result": {"$ref": "#/definitions/domain.FootprintResult"},
                "saved": {"type": "boolean"},
                "warning": {"type": "string", "example": "result not saved to history"}
            }
        },
        "handlers.EstimateResponse": {
            "type": "object",
            "properties": {"result": {"$ref": "#/definitions/domain.FootprintResult"}}
        },
        "handlers.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"}, "page_size": {"type": "integer"}, "total": {"type": "integer"},
                "total_pages": {"type": "integer"}, "has_next": {"type": "boolean"}
            }
        },
        "handlers.HistoryResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.FootprintResult"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "history.TableRow": {
            "type": "object",
            "properties": {
                "date": {"type": "string"}, "totalGramsCO2": {"type": "number"}, "transport": {"type": "string"},
                "electricityKWhPerMonth": {"type": "number"}, "waterLitresPerDay": {"type": "number"},
                "treesOwned": {"type": "integer"}, "tier": {"type": "string"}
            }
        },
        "handlers.TableResponse": {
            "type": "object",
            "properties": {"rows": {"type": "array", "items": {"$ref": "#/definitions/history.TableRow"}}}
        },
        "history.ChartPoint": {
            "type": "object",
            "properties": {"label": {"type": "string"}, "value": {"type": "number"}}
        },
        "handlers.ChartResponse": {
            "type": "object",
            "properties": {"points": {"type": "array", "items": {"$ref": "#/definitions/history.ChartPoint"}}}
        },
        "history.Summary": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "averageGramsCO2": {"type": "number"},
                "latest": {"$ref": "#/definitions/domain.FootprintResult"},
                "best": {"$ref": "#/definitions/domain.FootprintResult"},
                "worst": {"$ref": "#/definitions/domain.FootprintResult"},
                "byTier": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "handlers.ChatRequest": {
            "type": "object",
            "properties": {"prompt": {"type": "string", "example": "How can I cut my commute emissions?"}}
        },
        "handlers.ChatResponse": {
            "type": "object",
            "properties": {"reply": {"type": "string"}}
        },
        "handlers.ScheduleReminderRequest": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "delay": {"type": "string", "example": "2h"}}
        },
        "reminder.Reminder": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "message": {"type": "string"},
                "createdAt": {"type": "string"}, "dueAt": {"type": "string"}
            }
        },
        "handlers.RemindersResponse": {
            "type": "object",
            "properties": {"reminders": {"type": "array", "items": {"$ref": "#/definitions/reminder.Reminder"}}}
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "code": {"type": "string", "example": "invalid_input"},
                "message": {"type": "string"}
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
	Title:            "Eco Footprint API",
	Description:      "Daily CO2 footprint estimation, history, assistant and reminders.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
