package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the site API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>sophro-site API - Swagger</title>
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

// Minimal OpenAPI document listing the public and admin endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "sophro-site", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } }
  },
  "paths": {
    "/pages/{pageId}": {
      "get": { "summary": "Published page content with visible sections", "responses": { "200": { "description": "page" }, "404": { "description": "unknown or unpublished page" } } }
    },
    "/contact": {
      "post": {
        "summary": "Send a contact message",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"phone":{"type":"string"},"message":{"type":"string"}}}}}},
        "responses": { "201": { "description": "stored" }, "400": { "description": "field errors" } }
      }
    },
    "/temoignage": {
      "get": { "summary": "Validated testimonials", "responses": { "200": { "description": "paginated list" } } },
      "post": {
        "summary": "Submit a testimonial for moderation",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"message":{"type":"string"}}}}}},
        "responses": { "201": { "description": "pending" }, "400": { "description": "field errors" } }
      }
    },
    "/rdv": {
      "post": {
        "summary": "Request an appointment",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"phone":{"type":"string"},"date":{"type":"string"},"message":{"type":"string"}}}}}},
        "responses": { "201": { "description": "stored" }, "400": { "description": "field errors" } }
      }
    },
    "/admin/login": {
      "post": {
        "summary": "Admin login",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "access token" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/admin/logout": { "post": { "summary": "Revoke the current token", "security": [{"bearer": []}], "responses": { "200": { "description": "logged out" } } } },
    "/admin/profile": { "get": { "summary": "Current admin profile", "security": [{"bearer": []}], "responses": { "200": { "description": "profile" } } } },
    "/admin/profile/password": { "patch": { "summary": "Change password", "security": [{"bearer": []}], "responses": { "200": { "description": "changed" }, "401": { "description": "wrong current password" } } } },
    "/admin/temoignages": { "get": { "summary": "All testimonials", "security": [{"bearer": []}], "responses": { "200": { "description": "paginated list" } } } },
    "/admin/temoignages/{id}/status": { "patch": { "summary": "Moderate a testimonial", "security": [{"bearer": []}], "responses": { "200": { "description": "updated" }, "400": { "description": "invalid status" } } } },
    "/admin/temoignages/{id}": { "delete": { "summary": "Delete a testimonial", "security": [{"bearer": []}], "responses": { "200": { "description": "deleted" } } } },
    "/admin/contact-messages": { "get": { "summary": "Contact inbox", "security": [{"bearer": []}], "responses": { "200": { "description": "paginated list" } } } },
    "/admin/contact-messages/{id}/answered": { "patch": { "summary": "Mark a message answered", "security": [{"bearer": []}], "responses": { "200": { "description": "updated" } } } },
    "/admin/contact-messages/{id}": { "delete": { "summary": "Delete a message", "security": [{"bearer": []}], "responses": { "200": { "description": "deleted" } } } },
    "/admin/rdv": { "get": { "summary": "Appointment requests", "security": [{"bearer": []}], "responses": { "200": { "description": "paginated list" } } } },
    "/admin/rdv/{id}/status": { "patch": { "summary": "Confirm or cancel an appointment", "security": [{"bearer": []}], "responses": { "200": { "description": "updated" } } } },
    "/admin/rdv/{id}": { "delete": { "summary": "Delete an appointment", "security": [{"bearer": []}], "responses": { "200": { "description": "deleted" } } } },
    "/admin/pages": { "get": { "summary": "Page catalog with stats", "security": [{"bearer": []}], "responses": { "200": { "description": "pages" } } } },
    "/admin/pages/{pageId}": {
      "get": { "summary": "Page for editing", "security": [{"bearer": []}], "responses": { "200": { "description": "page" } } },
      "put": { "summary": "Update page content", "security": [{"bearer": []}], "responses": { "200": { "description": "updated" }, "400": { "description": "invalid data" } } }
    },
    "/admin/pages/{pageId}/versions": { "get": { "summary": "Version history", "security": [{"bearer": []}], "responses": { "200": { "description": "paginated versions" } } } },
    "/admin/pages/{pageId}/versions/{versionNumber}": { "get": { "summary": "One version snapshot", "security": [{"bearer": []}], "responses": { "200": { "description": "version" }, "404": { "description": "missing" } } } },
    "/admin/pages/{pageId}/versions/{versionNumber}/restore": { "post": { "summary": "Restore a version", "security": [{"bearer": []}], "responses": { "200": { "description": "restored" } } } },
    "/admin/pages/{pageId}/draft": {
      "post": { "summary": "Save a draft", "security": [{"bearer": []}], "responses": { "200": { "description": "saved" } } },
      "delete": { "summary": "Discard the draft", "security": [{"bearer": []}], "responses": { "200": { "description": "discarded" } } }
    },
    "/admin/pages/{pageId}/draft/publish": { "post": { "summary": "Publish the draft", "security": [{"bearer": []}], "responses": { "200": { "description": "published" }, "400": { "description": "no draft" } } } },
    "/admin/pages/{pageId}/sections/order": { "patch": { "summary": "Reorder sections", "security": [{"bearer": []}], "responses": { "200": { "description": "reordered" } } } },
    "/admin/media": { "post": { "summary": "Upload an image", "security": [{"bearer": []}], "responses": { "201": { "description": "key and url" }, "503": { "description": "storage not configured" } } } }
  }
}`
