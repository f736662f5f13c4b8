package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes payload with a "success" status discriminator. Payload keys
// override nothing; "status" is reserved.
func Success(c *gin.Context, payload gin.H) {
	body := gin.H{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func Partial(c *gin.Context, payload gin.H) {
	body := gin.H{"status": "partial"}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}
