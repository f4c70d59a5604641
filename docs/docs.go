// Package docs registers the OpenAPI document served at /v1/swagger/.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/venues/nearby": {
            "get": {
                "description": "Up to 10 active venues within the radius showing any of the given teams, nearest first.",
                "produces": ["application/json"],
                "tags": ["venues"],
                "summary": "Venues near a point for a set of teams",
                "parameters": [
                    {"type": "number", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "name": "lng", "in": "query", "required": true},
                    {"type": "string", "description": "comma separated team ids", "name": "teamIds", "in": "query", "required": true},
                    {"type": "number", "description": "meters, default 40234", "name": "radius", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.NearbyVenuesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.ErrorBadRequestResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/main.ErrorInternalServerResponse"}}
                }
            }
        },
        "/venues/search": {
            "get": {
                "description": "Up to 20 active venues within the radius with teams and rating aggregates, nearest first.",
                "produces": ["application/json"],
                "tags": ["venues"],
                "summary": "Search venues near a point",
                "parameters": [
                    {"type": "number", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "name": "lng", "in": "query", "required": true},
                    {"type": "number", "description": "meters, default 40234", "name": "radius", "in": "query"},
                    {"type": "string", "description": "team id", "name": "teamId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.SearchVenuesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.ErrorBadRequestResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/main.ErrorInternalServerResponse"}}
                }
            }
        },
        "/geocode": {
            "get": {
                "produces": ["application/json"],
                "tags": ["geocoding"],
                "summary": "Resolve free text to coordinates",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.GeocodeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.ErrorBadRequestResponse"}},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "main.ErrorBadRequestResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "lat: missing query parameter"},
                "status": {"type": "integer", "example": 400},
                "success": {"type": "boolean", "example": false}
            }
        },
        "main.ErrorInternalServerResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "the server encountered a problem"},
                "status": {"type": "integer", "example": 500},
                "success": {"type": "boolean", "example": false}
            }
        },
        "main.GeocodeResponse": {
            "type": "object",
            "properties": {
                "displayName": {"type": "string"},
                "lat": {"type": "number"},
                "lng": {"type": "number"}
            }
        },
        "main.NearbyVenue": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "city": {"type": "string"},
                "distance": {"type": "number"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "slug": {"type": "string"},
                "state": {"type": "string"}
            }
        },
        "main.NearbyVenuesResponse": {
            "type": "object",
            "properties": {
                "venues": {"type": "array", "items": {"$ref": "#/definitions/main.NearbyVenue"}}
            }
        },
        "main.SearchVenuesResponse": {
            "type": "object",
            "properties": {
                "venues": {"type": "array", "items": {"$ref": "#/definitions/search.Result"}}
            }
        },
        "search.Result": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "avgRating": {"type": "number"},
                "city": {"type": "string"},
                "distance": {"type": "number"},
                "id": {"type": "string"},
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "name": {"type": "string"},
                "reviewCount": {"type": "integer"},
                "slug": {"type": "string"},
                "state": {"type": "string"},
                "teams": {"type": "array", "items": {"$ref": "#/definitions/venues.TeamSummary"}}
            }
        },
        "venues.TeamSummary": {
            "type": "object",
            "properties": {
                "abbreviation": {"type": "string"},
                "city": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "sport": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        },
        "BasicAuth": {
            "type": "basic"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "rbar API",
	Description:      "Find bars and restaurants showing your team's games.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
