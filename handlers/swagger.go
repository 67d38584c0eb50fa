package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r *gin.Engine) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>mathplanner - Swagger</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "mathplanner", "version": "v0.1.0" },
  "paths": {
    "/auth/register": {
      "post": { "summary": "Create a teacher account", "responses": { "200": { "description": "tokens returned" }, "409": { "description": "email already registered" } } }
    },
    "/auth/login": {
      "post": { "summary": "Password login", "responses": { "200": { "description": "tokens returned" }, "401": { "description": "authentication failed" } } }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/profile": {
      "get": { "summary": "Current teacher profile", "responses": { "200": { "description": "profile" } } },
      "put": { "summary": "Update personalization fields", "responses": { "200": { "description": "updated profile" } } }
    },
    "/api/v1/catalog/levels": {
      "get": { "summary": "Active school levels", "responses": { "200": { "description": "ordered level list" } } }
    },
    "/api/v1/catalog/templates": {
      "get": { "summary": "Templates for a level and semester, plan-gated", "responses": { "200": { "description": "ordered template list" } } }
    },
    "/api/v1/documents/generate": {
      "post": { "summary": "Personalize and compile one workbook PDF", "responses": { "200": { "description": "base64 PDF and filename" }, "400": { "description": "missing personalization fields" }, "500": { "description": "document generation failed" } } }
    },
    "/api/v1/documents/preview": {
      "post": { "summary": "Convert LaTeX to display HTML", "responses": { "200": { "description": "html, hasErrors, errors" } } }
    },
    "/api/v1/documents/draft": {
      "post": { "summary": "AI-assisted LaTeX draft, sanitized and validated", "responses": { "200": { "description": "latexContent with fallback flag" } } }
    },
    "/api/v1/documents/{job_id}/download": {
      "get": { "summary": "Presigned URL for an archived PDF", "responses": { "200": { "description": "url and filename" }, "404": { "description": "no archived document" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
