// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/commands": {
            "get": {
                "description": "List every ESC/POS command with its opcode, framing and parameters",
                "produces": ["application/json"],
                "tags": ["Commands"],
                "summary": "List commands",
                "responses": {
                    "200": {"description": "Command catalog", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/commands/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Commands"],
                "summary": "Get command",
                "parameters": [
                    {"type": "string", "description": "Command name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Command", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Unknown command", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/commands/encode": {
            "post": {
                "description": "Encode an ordered list of commands into ESC/POS bytes",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Commands"],
                "summary": "Encode commands",
                "parameters": [
                    {"description": "Commands to encode", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.EncodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Encoded job", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Invalid command", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "413": {"description": "Request body too large", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/printer/print": {
            "post": {
                "description": "Encode commands and write them to the configured printer. Query commands read the reply back.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Printer"],
                "summary": "Print commands",
                "parameters": [
                    {"description": "Commands to print", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.EncodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Job printed", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Invalid command", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "502": {"description": "Printer error", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "503": {"description": "No printer configured", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "504": {"description": "Printer timed out", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/printer/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Printer"],
                "summary": "Printer status",
                "responses": {
                    "200": {"description": "Printer answered", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "502": {"description": "Printer did not answer", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "503": {"description": "No printer configured", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/discovery/scan": {
            "get": {
                "description": "Scan serial ports, USB devices and configured TCP targets for printers",
                "produces": ["application/json"],
                "tags": ["Discovery"],
                "summary": "Scan for printer ports",
                "parameters": [
                    {"enum": ["all", "serial", "usb", "tcp"], "type": "string", "default": "all", "description": "Scan type", "name": "type", "in": "query"},
                    {"type": "string", "default": "10s", "description": "Scan timeout, capped by discovery.timeout", "name": "timeout", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Port scan completed", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Invalid scan type or timeout", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "500": {"description": "Scan failed", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/discovery/scanners": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Discovery"],
                "summary": "List scanners",
                "responses": {
                    "200": {"description": "Available scanners", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.CommandRequest": {
            "type": "object",
            "required": ["command"],
            "properties": {
                "command": {"type": "string", "example": "line_spacing"},
                "params": {"type": "object", "additionalProperties": true}
            }
        },
        "model.EncodeRequest": {
            "type": "object",
            "required": ["commands"],
            "properties": {
                "commands": {"type": "array", "items": {"$ref": "#/definitions/model.CommandRequest"}}
            }
        },
        "utils.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {}
            }
        },
        "utils.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/utils.APIError"},
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8085",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ESC/POS Service API",
	Description:      "Encodes ESC/POS printer commands and sends jobs to a serial, USB or TCP receipt printer",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
