package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>mirror-api — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the admin and bot-facing endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "mirror-api", "version": "v0.1.0" },
  "paths": {
    "/api/admin/bots/get": {
      "get": {
        "summary": "Get a registered bot by username (admin)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"data":{"type":"object","properties":{"username":{"type":"string"}}}}}}}},
        "responses": { "200": { "description": "bot returned" }, "404": { "description": "bot not found" } }
      }
    },
    "/api/admin/bots/getall": {
      "get": { "summary": "List every registered bot, username ascending (admin)", "responses": { "200": { "description": "bots returned" }, "404": { "description": "listing failed" } } }
    },
    "/api/admin/bots/add": {
      "put": {
        "summary": "Register a new bot (admin)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"data":{"type":"object","properties":{"username":{"type":"string"},"developer":{"type":"string"},"token":{"type":"string"}}}}}}}},
        "responses": { "200": { "description": "bot created" }, "400": { "description": "username already registered" } }
      }
    },
    "/api/admin/bots/update": {
      "post": {
        "summary": "Update a bot's developer and/or token (admin)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"data":{"type":"object","properties":{"username":{"type":"string"},"developer":{"type":"string"},"token":{"type":"string"}}}}}}}},
        "responses": { "200": { "description": "changes applied" }, "400": { "description": "bot does not exist" }, "500": { "description": "save failed" } }
      }
    },
    "/api/admin/bots/delete": {
      "delete": {
        "summary": "Remove a bot (admin)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"data":{"type":"object","properties":{"username":{"type":"string"}}}}}}}},
        "responses": { "200": { "description": "bot removed" }, "400": { "description": "bot does not exist" }, "500": { "description": "removal failed" } }
      }
    },
    "/api/bot/mirroredvideos/update": {
      "post": {
        "summary": "Create or update a mirror record for a Reddit post",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"auth":{"type":"object","properties":{"token":{"type":"string"},"botToken":{"type":"string"}}},"data":{"type":"object","properties":{"redditPostId":{"type":"string"},"url":{"type":"string"}}}}}}}},
        "responses": { "200": { "description": "mirror created or updated" }, "401": { "description": "authorization failed" }, "500": { "description": "persistence failure" } }
      }
    },
    "/api/bot/mirroredvideos/delete": {
      "delete": {
        "summary": "Remove a mirror record matching the exact post id and url",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"auth":{"type":"object","properties":{"token":{"type":"string"},"botToken":{"type":"string"}}},"data":{"type":"object","properties":{"redditPostId":{"type":"string"},"url":{"type":"string"}}}}}}}},
        "responses": { "200": { "description": "mirror removed" }, "401": { "description": "authorization failed" }, "404": { "description": "mirror not found" }, "500": { "description": "persistence failure" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
