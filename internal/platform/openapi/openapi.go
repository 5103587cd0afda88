// Package openapi serves an OpenAPI 3 description of the HTTP surface at
// /openapi.json and a Swagger UI page at /docs.
package openapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Schema is a JSON Schema object as embedded in the document.
type Schema = map[string]interface{}

// Response documents one status code of an operation. Schema names a
// component schema; empty means no body.
type Response struct {
	Description string
	Schema      string
}

// Operation documents one route.
type Operation struct {
	Method      string
	Path        string
	Summary     string
	OperationID string
	Tag         string
	Request     string // component schema of the JSON body, if any
	Responses   map[int]Response
}

// Generator builds the document from registered operations and schemas.
type Generator struct {
	title   string
	version string
	ops     []Operation
	schemas map[string]Schema
}

func NewGenerator(title, version string) *Generator {
	return &Generator{title: title, version: version, schemas: make(map[string]Schema)}
}

// Add registers operations together with the component schemas they use.
func (g *Generator) Add(ops []Operation, schemas map[string]Schema) *Generator {
	g.ops = append(g.ops, ops...)
	for name, s := range schemas {
		g.schemas[name] = s
	}
	return g
}

// GenerateSpec produces the OpenAPI 3.0 document as a map.
func (g *Generator) GenerateSpec() map[string]interface{} {
	paths := make(map[string]interface{})
	for _, op := range g.ops {
		item, _ := paths[op.Path].(map[string]interface{})
		if item == nil {
			item = make(map[string]interface{})
			paths[op.Path] = item
		}
		item[strings.ToLower(op.Method)] = g.buildOperation(op)
	}

	schemas := make(map[string]interface{}, len(g.schemas))
	for name, s := range g.schemas {
		schemas[name] = s
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":   g.title,
			"version": g.version,
		},
		"paths": paths,
		"components": map[string]interface{}{
			"schemas": schemas,
		},
	}
}

func (g *Generator) buildOperation(op Operation) map[string]interface{} {
	out := map[string]interface{}{
		"summary":     op.Summary,
		"operationId": op.OperationID,
	}
	if op.Tag != "" {
		out["tags"] = []string{op.Tag}
	}
	if op.Request != "" {
		out["requestBody"] = map[string]interface{}{
			"required": true,
			"content":  jsonContent(op.Request),
		}
	}

	codes := make([]int, 0, len(op.Responses))
	for code := range op.Responses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	responses := make(map[string]interface{}, len(codes))
	for _, code := range codes {
		r := op.Responses[code]
		resp := map[string]interface{}{"description": r.Description}
		if r.Schema != "" {
			resp["content"] = jsonContent(r.Schema)
		}
		responses[strconv.Itoa(code)] = resp
	}
	out["responses"] = responses
	return out
}

func jsonContent(schema string) map[string]interface{} {
	return map[string]interface{}{
		"application/json": map[string]interface{}{
			"schema": map[string]interface{}{"$ref": "#/components/schemas/" + schema},
		},
	}
}

// RegisterRoutes registers GET /openapi.json and GET /docs.
func (g *Generator) RegisterRoutes(e *echo.Echo) {
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, g.GenerateSpec())
	})
	e.GET("/docs", func(c echo.Context) error {
		// Swagger UI loads scripts from a CDN.
		c.Response().Header().Set("Content-Security-Policy", "default-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline' https://unpkg.com; script-src 'self' 'unsafe-inline' https://unpkg.com")
		return c.HTML(http.StatusOK, strings.ReplaceAll(swaggerUIHTML, "{{title}}", g.title))
	})
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{title}} - Swagger UI</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" >
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/openapi.json",
      dom_id: '#swagger-ui',
      deepLinking: true,
      presets: [SwaggerUIBundle.presets.apis],
    })
  </script>
</body>
</html>`
