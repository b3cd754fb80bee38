package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captionly/captionly/internal/application"
	"github.com/captionly/captionly/internal/domain/entity"
	repo "github.com/captionly/captionly/internal/domain/repository"
	"github.com/captionly/captionly/pkg/helpers"
	"github.com/captionly/captionly/pkg/validation"
)

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *memUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	r := newMemUserRepo()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	svc := application.NewUserService(r, jwt, nil, "", nil, false, nil)
	h := NewAuthHandler(svc, nil)

	e := gin.New()
	e.POST("/api/auth/register", h.Register)
	e.POST("/api/auth/login", h.Login)
	return e, r
}

func postJSON(e *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	e.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	e, r := setupAuthRouter(t)

	w := postJSON(e, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	// the password hash must never be serialized
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.Len(t, r.users, 1)
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	e, _ := setupAuthRouter(t)

	w := postJSON(e, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(e, "/api/auth/register", `{"name":"Mallory","email":"alice@example.com","password":"password456"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	e, r := setupAuthRouter(t)

	cases := []string{
		`{"email":"alice@example.com","password":"password123"}`, // no name
		`{"name":"Alice","email":"not-an-email","password":"password123"}`,
		`{"name":"Alice","email":"alice@example.com","password":"short"}`,
		`not json`,
	}
	for _, body := range cases {
		w := postJSON(e, "/api/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
	assert.Empty(t, r.users)
}

func TestAuthHandler_Login(t *testing.T) {
	e, _ := setupAuthRouter(t)

	w := postJSON(e, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(e, "/api/auth/login", `{"email":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
}

func TestAuthHandler_LoginBadCredentials(t *testing.T) {
	e, _ := setupAuthRouter(t)

	w := postJSON(e, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// wrong password and unknown email answer identically
	w1 := postJSON(e, "/api/auth/login", `{"email":"alice@example.com","password":"wrong-password"}`)
	w2 := postJSON(e, "/api/auth/login", `{"email":"nobody@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}
