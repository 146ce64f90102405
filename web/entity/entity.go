// Package entity defines the JSON shapes exchanged by the HTTP layer.
package entity

import (
	"fmt"

	"github.com/drsdgdbye/user-panel/database/model"
)

// SuccessDto is the generic response envelope. Errors is null on success paths.
type SuccessDto struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

// Ok returns the envelope sent on successful writes.
func Ok() SuccessDto {
	return SuccessDto{Success: true}
}

// Fail returns an envelope carrying the given messages.
func Fail(messages ...string) SuccessDto {
	return SuccessDto{Success: false, Errors: messages}
}

// UserDto is the full user representation, used as request body for /add and
// /edit and as the /get response. Password is a plain read/write field.
type UserDto struct {
	Id       *int64  `json:"id"`
	Login    string  `json:"login" binding:"notblank,max=32"`
	Password string  `json:"password" binding:"notblank,max=64,password"`
	Name     string  `json:"name" binding:"notblank,max=32"`
	Roles    []int64 `json:"roles" binding:"required"`
}

// NewUserDto projects a stored user and its role ids.
func NewUserDto(u *model.User, roleIds []int64) UserDto {
	id := u.Id
	if roleIds == nil {
		roleIds = []int64{}
	}
	return UserDto{
		Id:       &id,
		Login:    u.Login,
		Password: u.Password,
		Name:     u.Name,
		Roles:    roleIds,
	}
}

// String masks the password so DTOs can be logged.
func (d UserDto) String() string {
	id := "null"
	if d.Id != nil {
		id = fmt.Sprint(*d.Id)
	}
	return fmt.Sprintf("UserDto{id=%s, login=%q, name=%q, roles=%v, password=***}", id, d.Login, d.Name, d.Roles)
}

// UserWithoutRolesDto is the /list element: no password, no roles.
type UserWithoutRolesDto struct {
	Id    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

func NewUserWithoutRolesDto(u *model.User) UserWithoutRolesDto {
	return UserWithoutRolesDto{Id: u.Id, Login: u.Login, Name: u.Name}
}

// IdParam binds the {id} path segment of /get and /delete.
type IdParam struct {
	Id int64 `uri:"id" binding:"required,gt=0"`
}
