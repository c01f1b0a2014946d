package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OpenAPIValidator validates requests against the API document before they
// reach the handlers. Paths the document does not describe pass through.
func OpenAPIValidator(doc *openapi3.T, logger *zap.Logger) (gin.HandlerFunc, error) {
	// Servers would make the router match on host
	doc.Servers = nil

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(c *gin.Context) {
		route, pathParams, err := router.FindRoute(c.Request)
		if errors.Is(err, routers.ErrMethodNotAllowed) {
			c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Method not allowed",
			})
			return
		}
		if err != nil {
			c.Next()
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options:    options,
		}
		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			details := err.Error()
			logger.Debug("request rejected by openapi validation",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("reason", details),
			)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Request does not match the API schema",
				"details": details,
			})
			return
		}

		c.Next()
	}, nil
}
