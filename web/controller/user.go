package controller

import (
	"net/http"

	"github.com/drsdgdbye/user-panel/logger"
	"github.com/drsdgdbye/user-panel/web/entity"
	"github.com/drsdgdbye/user-panel/web/service"
	"github.com/drsdgdbye/user-panel/web/validation"

	"github.com/gin-gonic/gin"
)

// UserController serves the user management endpoints.
type UserController struct {
	BaseController

	userService *service.UserService
}

// NewUserController creates a UserController and registers its routes on g.
func NewUserController(g *gin.RouterGroup, userService *service.UserService) *UserController {
	validation.Init()
	a := &UserController{userService: userService}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g.POST("/add", a.addUser)
	g.PUT("/edit", a.editUser)
	g.GET("/list", a.getUsers)
	g.GET("/get/:id", a.getUser)
	g.DELETE("/delete/:id", a.deleteUser)
}

// addUser creates a user unless the login is taken or the body carries an id.
func (a *UserController) addUser(c *gin.Context) {
	var dto entity.UserDto
	if !a.bindJSON(c, &dto) {
		return
	}
	logger.Debugf("rest request to add user: %v", dto)

	exists, err := a.userService.IsUserExists(c.Request.Context(), dto)
	if err != nil {
		jsonError(c, err)
		return
	}
	if exists || dto.Id != nil {
		jsonError(c, service.ErrUserAlreadyExists)
		return
	}
	if _, err := a.userService.CreateUser(c.Request.Context(), dto); err != nil {
		jsonError(c, err)
		return
	}
	pureJsonMsg(c, http.StatusCreated, entity.Ok())
}

// editUser updates a user. The guard only requires that some user holds the
// submitted login and that the body carries an id.
func (a *UserController) editUser(c *gin.Context) {
	var dto entity.UserDto
	if !a.bindJSON(c, &dto) {
		return
	}
	logger.Debugf("rest request to edit user: %v", dto)

	exists, err := a.userService.IsUserExists(c.Request.Context(), dto)
	if err != nil {
		jsonError(c, err)
		return
	}
	if !exists || dto.Id == nil {
		jsonError(c, service.ErrUserNotFound)
		return
	}
	if err := a.userService.UpdateUser(c.Request.Context(), dto); err != nil {
		jsonError(c, err)
		return
	}
	pureJsonMsg(c, http.StatusOK, entity.Ok())
}

func (a *UserController) getUsers(c *gin.Context) {
	logger.Debug("rest request to get list of users without roles")

	users, err := a.userService.GetUsersList(c.Request.Context())
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *UserController) getUser(c *gin.Context) {
	id, ok := a.bindId(c)
	if !ok {
		return
	}
	logger.Debugf("rest request to get user with roles by id: %d", id)

	user, err := a.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *UserController) deleteUser(c *gin.Context) {
	id, ok := a.bindId(c)
	if !ok {
		return
	}
	logger.Debugf("rest request to delete user by id: %d", id)

	if err := a.userService.DeleteUser(c.Request.Context(), id); err != nil {
		jsonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
