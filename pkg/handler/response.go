package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/apperr"
	"github.com/honorwa/honor-wallet/pkg/middleware"
)

type Error struct {
	Message string `json:"message"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	logrus.WithFields(logrus.Fields{"status": statusCode, "path": c.FullPath()}).Error(message)
	c.AbortWithStatusJSON(statusCode, Error{Message: message})
}

// errorResponse answers with the status matching err's kind. Internal
// errors are not echoed to the client.
func errorResponse(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("internal error")
		newErrorResponse(c, status, "something went wrong")
		return
	}
	newErrorResponse(c, status, err.Error())
}

func wrapOkJSON(c *gin.Context, response map[string]interface{}) {
	c.JSON(http.StatusOK, response)
}

func session(c *gin.Context) models.Session {
	s, _ := middleware.Session(c)
	return s
}
