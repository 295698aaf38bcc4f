// Package docs holds the OpenAPI description of the voxlist HTTP API.
//
// Regenerate with: swag init -g internal/transport/http/http.go -o docs
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
        "/dispatch": {
            "post": {
                "description": "Accepts a JSON message (pre-transcribed text or base64 audio) or raw audio bytes.\nThe utterance is transcribed, parsed and dispatched against the playlist service.\nDomain failures (unrecognized phrasing, unknown playlist) are reported in the body with status 200.",
                "consumes": ["application/json", "audio/wav", "audio/ogg"],
                "produces": ["application/json"],
                "tags": ["dispatch"],
                "summary": "Dispatch a spoken or typed playlist command",
                "parameters": [
                    {
                        "description": "Dispatch request (JSON). For raw audio, POST the bytes directly with the appropriate Content-Type.",
                        "name": "message",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/message.Message"}
                    },
                    {
                        "type": "string",
                        "description": "Sender identifier (used with raw audio uploads)",
                        "name": "X-Voxlist-Source",
                        "in": "header"
                    }
                ],
                "responses": {
                    "200": {"description": "Turn outcome", "schema": {"$ref": "#/definitions/message.TurnResult"}},
                    "400": {"description": "Invalid request body", "schema": {"type": "string"}},
                    "413": {"description": "Request body too large", "schema": {"type": "string"}},
                    "500": {"description": "Internal processing error", "schema": {"type": "string"}}
                }
            }
        },
        "/parse": {
            "post": {
                "description": "Runs the command parser on the normalized text and returns the structured command, if any.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["parse"],
                "summary": "Parse an utterance without dispatching it",
                "parameters": [
                    {
                        "description": "Utterance text",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.ParseRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Parse result", "schema": {"$ref": "#/definitions/http.ParseResponse"}},
                    "400": {"description": "Invalid request body", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "command.Command": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["create_playlist", "add_track", "remove_track", "delete_playlist"]},
                "playlist_name": {"type": "string"},
                "track_name": {"type": "string"},
                "artist_name": {"type": "string"}
            }
        },
        "dispatch.Result": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "reason": {"type": "string", "enum": ["playlist_not_found", "track_not_found", "remote_call_failed", "invalid_command"]},
                "message": {"type": "string"},
                "remote_id": {"type": "string"}
            }
        },
        "http.ParseRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "example": "add thriller by michael jackson to my halloween playlist"}
            }
        },
        "http.ParseResponse": {
            "type": "object",
            "properties": {
                "recognized": {"type": "boolean"},
                "command": {"$ref": "#/definitions/command.Command"}
            }
        },
        "message.Message": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "source": {"type": "string"},
                "audio": {"type": "array", "items": {"type": "integer"}},
                "content_type": {"type": "string"},
                "text": {"type": "string"},
                "language": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "message.TurnResult": {
            "type": "object",
            "properties": {
                "message_id": {"type": "string"},
                "transcript": {"type": "string"},
                "outcome": {"type": "string", "enum": ["not_transcribed", "not_recognized", "succeeded", "failed"]},
                "command": {"$ref": "#/definitions/command.Command"},
                "result": {"$ref": "#/definitions/dispatch.Result"},
                "response_text": {"type": "string"},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "voxlist API",
	Description:      "Voice-driven playlist management: transcribe, parse and dispatch playlist commands.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
