// Package docs регистрирует описание Swagger для консоли.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Доступность API конфигурации",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/navigation": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Navigation"],
                "summary": "Решение маршрутизации для пути консоли",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "path", "in": "query", "required": true},
                    {"type": "string", "name": "query", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/workspaces": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Workspaces"],
                "summary": "Список рабочих пространств",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/workspaces/{workspaceID}/billing": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Billing"],
                "summary": "Биллинговый статус рабочего пространства",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "workspaceID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/billing/banner": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Billing"],
                "summary": "Уровень баннера по входным данным",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/instance_configuration/setup": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Setup"],
                "summary": "Завершение первичной настройки",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo содержит экспортируемую информацию Swagger.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Cloud Console API",
	Description:      "Backend консоли: навигация по рабочим пространствам, биллинговые баннеры, аналитика",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
