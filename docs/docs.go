// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/foodlog/main.go
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/sessions": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Create scan session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.SessionTicket"}},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/v1/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SessionSnapshot"}},
                    "401": {"description": "Unauthorized"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "End session",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/session/capture": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Open the capture screen",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/v1/session/image": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["image/png", "image/jpeg", "image/webp", "image/gif"],
                "tags": ["image"],
                "summary": "Preview bytes",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["image"],
                "summary": "Pick an image",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"},
                    "413": {"description": "Request Entity Too Large"},
                    "422": {"description": "Unprocessable Entity"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["image"],
                "summary": "Discard the preview",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/v1/session/image/drop": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["image"],
                "summary": "Drop an image",
                "parameters": [
                    {"description": "Dropped file", "name": "payload", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/handlers.DropImageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"},
                    "413": {"description": "Request Entity Too Large"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/api/v1/session/analyze": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Analyze the preview",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/api/v1/session/results": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Nutrition results",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/flow.Results"}},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/api/v1/session/save": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Log the meal",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/v1/session/new-scan": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Start another scan",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/v1/session/home": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Return home",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/session/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Drain notifications",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List session journal",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "string", "name": "type", "in": "query",
                     "enum": ["SESSION_START", "START_CAPTURE", "PREVIEW", "SUBMIT", "COMPLETE", "ANALYSIS_FAILED", "SAVE", "HOME", "SESSION_END"]}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/ws": {
            "get": {
                "tags": ["session"],
                "summary": "Live session stream",
                "parameters": [
                    {"type": "string", "name": "token", "in": "query", "required": true},
                    {"type": "string", "name": "interval", "in": "query"},
                    {"type": "integer", "name": "interval_ms", "in": "query"}
                ],
                "responses": {"101": {"description": "Switching Protocols"}, "401": {"description": "Unauthorized"}}
            }
        }
    },
    "definitions": {
        "handlers.DropImageRequest": {
            "type": "object",
            "required": ["data"],
            "properties": {
                "name": {"type": "string", "example": "lunch.png"},
                "type": {"type": "string", "example": "image/png"},
                "data": {"type": "string"}
            }
        },
        "models.CapturedImage": {
            "type": "object",
            "properties": {
                "mime_type": {"type": "string"},
                "name": {"type": "string"},
                "size": {"type": "integer"},
                "fingerprint": {"type": "string"}
            }
        },
        "models.ProcessingProgress": {
            "type": "object",
            "properties": {
                "percent": {"type": "integer"},
                "step_index": {"type": "integer"},
                "phase_count": {"type": "integer"},
                "phase": {"type": "string"}
            }
        },
        "models.SessionSnapshot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "screen": {"type": "string", "enum": ["HOME", "CAPTURE", "PROCESSING", "RESULTS"]},
                "preview": {"$ref": "#/definitions/models.CapturedImage"},
                "image": {"$ref": "#/definitions/models.CapturedImage"},
                "progress": {"$ref": "#/definitions/models.ProcessingProgress"},
                "saving": {"type": "boolean"},
                "pending_notifications": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "models.IngredientRecord": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "weight_g": {"type": "number"},
                "calories": {"type": "number"},
                "protein_g": {"type": "number"},
                "carbs_g": {"type": "number"},
                "fat_g": {"type": "number"}
            }
        },
        "models.NutritionTotals": {
            "type": "object",
            "properties": {
                "calories": {"type": "number"},
                "protein_g": {"type": "number"},
                "carbs_g": {"type": "number"},
                "fat_g": {"type": "number"}
            }
        },
        "flow.Results": {
            "type": "object",
            "properties": {
                "image": {"$ref": "#/definitions/models.CapturedImage"},
                "ingredients": {"type": "array", "items": {"$ref": "#/definitions/models.IngredientRecord"}},
                "totals": {"$ref": "#/definitions/models.NutritionTotals"}
            }
        },
        "service.SessionTicket": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"},
                "session": {"$ref": "#/definitions/models.SessionSnapshot"}
            }
        }
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
	Title:            "FoodLog API",
	Description:      "Scan-flow service: pick or drop a meal photo, watch the analysis progress, read the nutrition results.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
