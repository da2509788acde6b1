// Package gin wraps the Gin-Gonic framework types and middlewares
// which are used by the resource packages and the serve command.
package gin

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/momeni/docproc/pkg/core/log"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs one line per request with
// the structured logger, reporting the method, path, response status,
// and elapsed time.
func Logger() HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		log.Info(
			c.Request.Context(), "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// CORS returns a middleware which allows cross-origin requests from
// any origin, matching the open API exposure of this service.
func CORS() HandlerFunc {
	return cors.Default()
}
