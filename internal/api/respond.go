// Package api exposes the data-access operations as JSON envelopes.
package api

import (
	"net/http"

	"companion-app/frontend/internal/result"

	"github.com/gin-gonic/gin"
)

// respond writes res with the status of its kind, or okStatus on success.
func respond[T any](c *gin.Context, okStatus int, res result.Result[T]) {
	if !res.Success {
		c.JSON(res.Kind.StatusCode(), res)
		return
	}
	c.JSON(okStatus, res)
}

func respondOK[T any](c *gin.Context, res result.Result[T]) {
	respond(c, http.StatusOK, res)
}
