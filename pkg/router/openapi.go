package router

import (
	"net/http"

	"companion-app/frontend/api"
	"companion-app/frontend/pkg/validator"

	"github.com/gin-gonic/gin"
)

// AddOpenAPIValidation validates requests on group against the OpenAPI
// document and serves the document at /api/docs/openapi.yaml. A schema file
// configured with OPENAPI_SCHEMA_PATH replaces the embedded one.
func (r *Router) AddOpenAPIValidation(group *gin.RouterGroup) {
	var (
		v      *validator.OpenAPIValidator
		schema = api.Schema
		err    error
	)
	if path := r.Config.Server.OpenAPISchemaPath; path != "" {
		v, err = validator.NewOpenAPIValidator(path)
	} else {
		v, err = validator.NewOpenAPIValidatorFromData(schema)
	}
	if err != nil {
		r.Logger.Error("Failed to initialize OpenAPI validator", "error", err)
		return
	}

	group.Use(v.Middleware())
	if !r.Config.IsProduction() {
		group.Use(v.ResponseAudit())
	}
	r.Logger.Info("OpenAPI validation enabled")

	if path := r.Config.Server.OpenAPISchemaPath; path != "" {
		r.Engine.StaticFile("/api/docs/openapi.yaml", path)
	} else {
		r.Engine.GET("/api/docs/openapi.yaml", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/yaml", schema)
		})
	}
	r.Logger.Info("OpenAPI schema available at", "url", "/api/docs/openapi.yaml")
}
