package validator

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"

	"companion-app/frontend/pkg/logger"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
)

// OpenAPIValidator validates requests and responses against an OpenAPI document
type OpenAPIValidator struct {
	mutex      sync.RWMutex
	swagger    *openapi3.T
	router     routers.Router
	schemaPath string
}

// NewOpenAPIValidator loads the schema at schemaPath.
func NewOpenAPIValidator(schemaPath string) (*OpenAPIValidator, error) {
	v := &OpenAPIValidator{schemaPath: schemaPath}
	if err := v.ReloadSchema(); err != nil {
		return nil, err
	}
	return v, nil
}

// NewOpenAPIValidatorFromData builds a validator from an in-memory document.
func NewOpenAPIValidatorFromData(data []byte) (*OpenAPIValidator, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI schema: %w", err)
	}

	v := &OpenAPIValidator{}
	if err := v.install(loader.Context, swagger); err != nil {
		return nil, err
	}
	return v, nil
}

// ReloadSchema reloads the OpenAPI schema from disk
func (v *OpenAPIValidator) ReloadSchema() error {
	if v.schemaPath == "" {
		return nil
	}

	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromFile(v.schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load OpenAPI schema from %s: %w", v.schemaPath, err)
	}
	return v.install(loader.Context, swagger)
}

func (v *OpenAPIValidator) install(ctx context.Context, swagger *openapi3.T) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := swagger.Validate(ctx); err != nil {
		return fmt.Errorf("invalid OpenAPI schema: %w", err)
	}

	router, err := gorillamux.NewRouter(swagger)
	if err != nil {
		return fmt.Errorf("error creating OpenAPI router: %w", err)
	}

	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.swagger = swagger
	v.router = router
	return nil
}

func (v *OpenAPIValidator) findRoute(req *http.Request) (*routers.Route, map[string]string, error) {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.router.FindRoute(req)
}

// ValidateRequest checks req against its operation. Requests outside the
// document are accepted.
func (v *OpenAPIValidator) ValidateRequest(req *http.Request) error {
	route, pathParams, err := v.findRoute(req)
	if err != nil {
		return nil
	}

	return openapi3filter.ValidateRequest(req.Context(), &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	})
}

// ValidateResponse checks a response written for req against the document.
func (v *OpenAPIValidator) ValidateResponse(req *http.Request, status int, header http.Header, body []byte) error {
	route, pathParams, err := v.findRoute(req)
	if err != nil {
		return nil
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status:  status,
		Header:  header,
		Options: &openapi3filter.Options{IncludeResponseStatus: true},
	}
	input.SetBodyBytes(body)
	return openapi3filter.ValidateResponse(req.Context(), input)
}

// Middleware rejects requests that do not match the document with a failed
// envelope and status 400.
func (v *OpenAPIValidator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := v.ValidateRequest(c.Request); err != nil {
			logger.FromGin(c).Debug("Request rejected by OpenAPI validation", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fmt.Sprintf("Invalid request: %v", err),
			})
			return
		}
		c.Next()
	}
}

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseAudit logs responses that drift from the document. It never
// changes what the client receives.
func (v *OpenAPIValidator) ResponseAudit() gin.HandlerFunc {
	return func(c *gin.Context) {
		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if err := v.ValidateResponse(c.Request, w.Status(), w.Header(), w.body.Bytes()); err != nil {
			logger.FromGin(c).Warn("Response does not match OpenAPI schema",
				"path", c.Request.URL.Path,
				"status", w.Status(),
				"error", err.Error(),
			)
		}
	}
}
