package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with status. A 204 is sent without a body.
func JSON(c *gin.Context, status int, payload any) {
	if status == http.StatusNoContent {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

// OK writes a 200 JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}
