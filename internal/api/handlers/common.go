package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/halte-concierge/internal/utils"
)

// writeError hands err to the request logger and answers with a bare status
// text. Error details never reach the caller.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := utils.HTTPStatus(err)
	c.String(status, http.StatusText(status))
}

func requestID(c *gin.Context) string {
	return c.GetString("request_id")
}
