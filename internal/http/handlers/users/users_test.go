package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/princekumarofficial/expressions-service/internal/storage/memory"
	"github.com/princekumarofficial/expressions-service/internal/utils/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newMux(store *memory.Memory) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signup", SignUp(store))
	mux.HandleFunc("POST /login", Login(store, secret))
	mux.HandleFunc("GET /users/{user_id}", GetProfile(store))
	return mux
}

func do(t *testing.T, mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSignUpLoginProfile(t *testing.T) {
	store := memory.New()
	mux := newMux(store)

	rec := do(t, mux, http.MethodPost, "/signup", `{"username":"ana","email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created["id"])

	rec = do(t, mux, http.MethodPost, "/login", `{"email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var login map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, created["id"], login["user_id"])

	userID, err := jwt.ExtractUserIDFromToken(login["token"], secret)
	require.NoError(t, err)
	assert.Equal(t, created["id"], userID)

	rec = do(t, mux, http.MethodGet, "/users/"+created["id"], "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"ana"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestSignUp_Rejects(t *testing.T) {
	mux := newMux(memory.New())

	rec := do(t, mux, http.MethodPost, "/signup", `{"username":"ana","email":"not-an-email","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/signup", `{"username":"ana","email":"ana@example.com","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/signup", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/signup", `{"username":"ana","email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, mux, http.MethodPost, "/signup", `{"username":"ana","email":"ana@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	mux := newMux(memory.New())

	rec := do(t, mux, http.MethodPost, "/signup", `{"username":"ana","email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, mux, http.MethodPost, "/login", `{"email":"ana@example.com","password":"secret2"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, mux, http.MethodPost, "/login", `{"email":"bob@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetProfile_NotFound(t *testing.T) {
	mux := newMux(memory.New())

	rec := do(t, mux, http.MethodGet, "/users/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}
