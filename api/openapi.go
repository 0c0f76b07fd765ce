package api

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/gin-gonic/gin"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// OpenAPIDocument returns the raw API description served at /openapi.yaml.
func OpenAPIDocument() []byte { return openAPIDocument }

// RequestValidator checks requests against the embedded OpenAPI document.
type RequestValidator struct {
	router routers.Router
}

// NewRequestValidator loads and validates the embedded document.
func NewRequestValidator() (*RequestValidator, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := spec.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	router, err := legacy.NewRouter(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	return &RequestValidator{router: router}, nil
}

// Middleware rejects requests that don't match their operation. Requests for
// routes the document doesn't describe pass through untouched.
func (v *RequestValidator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route, pathParams, err := v.router.FindRoute(c.Request)
		if err != nil {
			c.Next()
			return
		}
		input := &openapi3filter.RequestValidationInput{
			Request:     c.Request,
			PathParams:  pathParams,
			Route:       route,
			QueryParams: c.Request.URL.Query(),
			Options:     &openapi3filter.Options{MultiError: false},
		}
		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			respondValidation(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
