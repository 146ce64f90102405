// Package controller provides the HTTP handlers of the user panel.
package controller

import (
	"net/http"

	"github.com/drsdgdbye/user-panel/web/entity"
	"github.com/drsdgdbye/user-panel/web/validation"

	"github.com/gin-gonic/gin"
)

// BaseController provides request binding shared by all controllers.
type BaseController struct{}

// bindJSON decodes and validates the request body into obj, replying 400 with
// one message per failed field when it does not validate.
func (a *BaseController) bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, entity.Fail(validation.Messages(err)...))
		return false
	}
	return true
}

// bindId parses the {id} path segment, replying 400 unless it is a positive integer.
func (a *BaseController) bindId(c *gin.Context) (int64, bool) {
	var param entity.IdParam
	if err := c.ShouldBindUri(&param); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, entity.Fail("id must be a positive integer"))
		return 0, false
	}
	return param.Id, true
}
