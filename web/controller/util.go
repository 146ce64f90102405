package controller

import (
	"errors"
	"net/http"

	"github.com/drsdgdbye/user-panel/logger"
	"github.com/drsdgdbye/user-panel/web/entity"
	"github.com/drsdgdbye/user-panel/web/service"

	"github.com/gin-gonic/gin"
)

// pureJsonMsg sends the envelope with a custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, msg entity.SuccessDto) {
	c.JSON(statusCode, msg)
}

// jsonError maps a service error to its status code and envelope.
func jsonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		pureJsonMsg(c, http.StatusNotFound, entity.Fail(service.ErrUserNotFound.Error()))
	case errors.Is(err, service.ErrUserAlreadyExists):
		pureJsonMsg(c, http.StatusConflict, entity.Fail(service.ErrUserAlreadyExists.Error()))
	case errors.Is(err, service.ErrRoleNotFound):
		pureJsonMsg(c, http.StatusBadRequest, entity.Fail(err.Error()))
	default:
		logger.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		pureJsonMsg(c, http.StatusInternalServerError, entity.Fail("internal server error"))
	}
}
