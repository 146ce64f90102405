package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drsdgdbye/user-panel/internal/testutil"
	"github.com/drsdgdbye/user-panel/web/entity"
	"github.com/drsdgdbye/user-panel/web/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultLogin    = "johndoe"
	defaultName     = "john doe"
	updatedName     = "john smith"
	defaultPassword = "Passjohnd0e"
	updatedPassword = "Passj0hnsmith"
)

type fixture struct {
	engine *gin.Engine
	users  *service.UserService
}

func newFixture(t *testing.T, name string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.OpenInMemoryDB(t, name)
	users := service.NewUserService(db)
	engine := gin.New()
	NewUserController(engine.Group("/"), users)
	NewHealthController(engine.Group("/"))
	return &fixture{engine: engine, users: users}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createUser(t *testing.T, login string) int64 {
	t.Helper()
	id, err := f.users.CreateUser(context.Background(), entity.UserDto{
		Login: login, Name: defaultName, Password: defaultPassword, Roles: []int64{},
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) list(t *testing.T) []map[string]any {
	t.Helper()
	rec := f.do(t, http.MethodGet, "/list", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) entity.SuccessDto {
	t.Helper()
	var msg entity.SuccessDto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	return msg
}

func TestAddUser(t *testing.T) {
	f := newFixture(t, "ctl_add")
	before := len(f.list(t))

	rec := f.do(t, http.MethodPost, "/add", map[string]any{
		"login": defaultLogin, "name": defaultName, "password": defaultPassword, "roles": []int64{},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"errors":null}`, rec.Body.String())

	users := f.list(t)
	require.Len(t, users, before+1)
	assert.Equal(t, defaultLogin, users[len(users)-1]["login"])
	assert.Equal(t, defaultName, users[len(users)-1]["name"])
}

func TestAddUser_LoginTakenIgnoringCaseAndSpaces(t *testing.T) {
	f := newFixture(t, "ctl_add_taken")
	f.createUser(t, defaultLogin)

	rec := f.do(t, http.MethodPost, "/add", map[string]any{
		"login": "  JohnDoe ", "name": defaultName, "password": defaultPassword, "roles": []int64{},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
	assert.Len(t, f.list(t), 1)
}

func TestAddUser_ClientSuppliedId(t *testing.T) {
	f := newFixture(t, "ctl_add_id")

	rec := f.do(t, http.MethodPost, "/add", map[string]any{
		"id": 100, "login": "fresh", "name": defaultName, "password": defaultPassword, "roles": []int64{},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, f.list(t))
}

func TestAddUser_ValidationFailures(t *testing.T) {
	f := newFixture(t, "ctl_add_invalid")

	tests := []struct {
		name     string
		body     any
		messages []string
	}{
		{
			name: "weak password",
			body: map[string]any{"login": defaultLogin, "name": defaultName, "password": "abcdef", "roles": []int64{}},
			messages: []string{
				"password must have >0 alphabetic in upper case and number. size must be >=4",
			},
		},
		{
			name: "missing fields",
			body: map[string]any{"login": " ", "password": defaultPassword},
			messages: []string{
				"login must not be null or empty",
				"name must not be null or empty",
				"roles must not be null",
			},
		},
		{
			name:     "login too long",
			body:     map[string]any{"login": "abcdefghijklmnopqrstuvwxyz0123456789", "name": defaultName, "password": defaultPassword, "roles": []int64{}},
			messages: []string{"login size must be between 0 and 32"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/add", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			msg := decodeEnvelope(t, rec)
			assert.False(t, msg.Success)
			assert.ElementsMatch(t, tt.messages, msg.Errors)
		})
	}

	rec := f.do(t, http.MethodPost, "/add", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.list(t))
}

func TestAddUser_UnknownRole(t *testing.T) {
	f := newFixture(t, "ctl_add_role")

	rec := f.do(t, http.MethodPost, "/add", map[string]any{
		"login": defaultLogin, "name": defaultName, "password": defaultPassword, "roles": []int64{999},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.list(t))
}

func TestEditUser(t *testing.T) {
	f := newFixture(t, "ctl_edit")
	id := f.createUser(t, defaultLogin)

	rec := f.do(t, http.MethodPut, "/edit", map[string]any{
		"id": id, "login": defaultLogin, "name": updatedName, "password": updatedPassword, "roles": []int64{},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"errors":null}`, rec.Body.String())

	got, err := f.users.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, defaultLogin, got.Login)
	assert.Equal(t, updatedName, got.Name)
	assert.Equal(t, updatedPassword, got.Password)
	assert.Empty(t, got.Roles)
}

func TestEditUser_NotFound(t *testing.T) {
	f := newFixture(t, "ctl_edit_missing")
	id := f.createUser(t, defaultLogin)

	rec := f.do(t, http.MethodPut, "/edit", map[string]any{
		"login": defaultLogin, "name": updatedName, "password": updatedPassword, "roles": []int64{},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPut, "/edit", map[string]any{
		"id": id + 100, "login": defaultLogin, "name": updatedName, "password": updatedPassword, "roles": []int64{},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPut, "/edit", map[string]any{
		"id": id, "login": "nobody", "name": updatedName, "password": updatedPassword, "roles": []int64{},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUser(t *testing.T) {
	f := newFixture(t, "ctl_get")
	id := f.createUser(t, defaultLogin)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/get/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(
		`{"id":%d,"login":%q,"password":%q,"name":%q,"roles":[]}`,
		id, defaultLogin, defaultPassword, defaultName,
	), rec.Body.String())

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, fmt.Sprintf("/get/%d", id+1), nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/get/0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/get/abc", nil).Code)
}

func TestListUsers_OmitsPasswordAndRoles(t *testing.T) {
	f := newFixture(t, "ctl_list")
	assert.Equal(t, "[]", f.do(t, http.MethodGet, "/list", nil).Body.String())

	f.createUser(t, "alice")
	f.createUser(t, "bob")

	users := f.list(t)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Len(t, u, 3)
		assert.NotContains(t, u, "password")
		assert.NotContains(t, u, "roles")
	}
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t, "ctl_delete")
	id := f.createUser(t, defaultLogin)
	f.createUser(t, "other")
	before := len(f.list(t))

	rec := f.do(t, http.MethodDelete, fmt.Sprintf("/delete/%d", id), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	users := f.list(t)
	assert.Len(t, users, before-1)

	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/delete/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodDelete, "/delete/-3", nil).Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, "ctl_health")
	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
