// Package auth provides the generated Swagger spec for the tenauth API.
// Regenerate with: swag init -g internal/auth/http/router.go -o api/auth
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness Probe",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Probe",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}
                    },
                    "503": {
                        "description": "service not ready",
                        "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}
                    }
                }
            }
        },
        "/v1/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Login",
                "description": "Authenticates with username or email plus password. Returns a short-lived access token; the rotating refresh token is set as an HTTP-only cookie.",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/authsdk.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "access_token, token_type, expires_in, user",
                        "schema": {"$ref": "#/definitions/authsdk.TokenResponse"}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authsdk.APIError"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authsdk.APIError"}
                    }
                }
            }
        },
        "/v1/auth/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh",
                "description": "Rotates the refresh cookie and returns a fresh access token. Replaying an old cookie revokes the whole session chain.",
                "responses": {
                    "200": {
                        "description": "access_token, token_type, expires_in, user",
                        "schema": {"$ref": "#/definitions/authsdk.TokenResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authsdk.APIError"}
                    }
                }
            }
        },
        "/v1/auth/revoke": {
            "post": {
                "tags": ["Auth"],
                "summary": "Logout",
                "description": "Revokes the session behind the refresh cookie and clears it. Revoking twice is fine.",
                "responses": {
                    "204": {"description": "session revoked"},
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authsdk.APIError"}
                    }
                }
            }
        },
        "/v1/permissions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Effective Permissions",
                "description": "Returns the authenticated caller's effective permissions: the per-resource union of the grant bits of every active role they hold in their tenant.",
                "responses": {
                    "200": {
                        "description": "resource code -> action bits",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {"$ref": "#/definitions/authsdk.PermissionBits"}
                        }
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authsdk.APIError"}
                    }
                }
            }
        }
    },
    "definitions": {
        "authsdk.APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"},
                "fields": {
                    "type": "object",
                    "additionalProperties": {"type": "string"}
                }
            }
        },
        "authsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"}
            }
        },
        "authsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/authsdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "authsdk.LoginRequest": {
            "type": "object",
            "properties": {
                "name_or_email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "authsdk.PermissionBits": {
            "type": "object",
            "properties": {
                "create": {"type": "boolean"},
                "read": {"type": "boolean"},
                "update": {"type": "boolean"},
                "delete": {"type": "boolean"},
                "export": {"type": "boolean"},
                "import": {"type": "boolean"},
                "print": {"type": "boolean"}
            }
        },
        "authsdk.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "token_type": {"type": "string"},
                "user": {"$ref": "#/definitions/authsdk.UserSummary"}
            }
        },
        "authsdk.UserSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tenant_id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Tenauth Authentication Service API",
	Description:      "Multi-tenant authentication and authorization service: password login, rotating refresh tokens with replay containment, and role-based resource privileges.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
