package auth

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casavia/casavia/internal/shared"
	_ "github.com/casavia/casavia/testing"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()
	svc, _ := newTestService(t, &stubRBACRepo{
		direct: []string{"property_create"},
	})
	handler := NewHandler(nil, svc, nullBlobStore{})

	r := chi.NewRouter()
	handler.MountPublicRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				token := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
				userID, err := svc.sessions.Resolve(req.Context(), token)
				if err == nil {
					ctx := shared.ContextWithActor(req.Context(), userID)
					ctx = shared.ContextWithToken(ctx, token)
					req = req.WithContext(ctx)
				}
				next.ServeHTTP(w, req)
			})
		})
		handler.MountRoutes(r)
	})
	return r, svc
}

func registerBody() url.Values {
	return url.Values{
		"email":        {"a@x.com"},
		"password":     {"p1-secret"},
		"name":         {"Ada Okafor"},
		"title":        {"Realtor"},
		"phone_number": {"08010000000"},
		"address":      {"1 Marina Rd"},
		"city":         {"Lagos"},
		"state":        {"Lagos"},
		"country":      {"NG"},
		"zip_code":     {"100001"},
		"about":        {"Realtor"},
	}
}

func postForm(t *testing.T, router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

// postRegistration submits the registration multipart form with a stub
// profile photo attached.
func postRegistration(t *testing.T, router http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vals := range form {
		for _, val := range vals {
			require.NoError(t, mw.WriteField(key, val))
		}
	}
	part, err := mw.CreateFormFile("profile_photo", "me.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	res := postRegistration(t, router, registerBody())
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	body := decodeBody(t, res)
	assert.Equal(t, "Registration sucessful!", body["message"])
	assert.Equal(t, float64(1), body["id"])
}

func TestRegisterDuplicateEmailConflictBody(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, postRegistration(t, router, registerBody()).Code)

	form := registerBody()
	form.Set("email", "A@X.com")
	res := postRegistration(t, router, form)

	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, map[string]any{"message": "Email already in use"}, decodeBody(t, res))
}

func TestRegisterMissingFields(t *testing.T) {
	router, _ := newTestRouter(t)

	form := registerBody()
	form.Del("email")
	res := postRegistration(t, router, form)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "The email field is missing or invalid", decodeBody(t, res)["message"])
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, postRegistration(t, router, registerBody()).Code)

	res := postForm(t, router, "/auth/login", url.Values{
		"email": {"a@x.com"}, "password": {"p1-secret"},
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.NotEmpty(t, decodeBody(t, res)["token"])

	res = postForm(t, router, "/auth/login", url.Values{
		"email": {"a@x.com"}, "password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Email/Password combination not correct", decodeBody(t, res)["message"])
}

func TestLoginAcceptsJSONBody(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, postRegistration(t, router, registerBody()).Code)

	body, err := json.Marshal(map[string]string{"email": "a@x.com", "password": "p1-secret"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.NotEmpty(t, decodeBody(t, res)["token"])
}

func TestMeAndLogoutFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, postRegistration(t, router, registerBody()).Code)

	login := postForm(t, router, "/auth/login", url.Values{
		"email": {"a@x.com"}, "password": {"p1-secret"},
	})
	require.Equal(t, http.StatusCreated, login.Code)
	token := decodeBody(t, login)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	user := decodeBody(t, res)["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, []any{"property_create"}, user["permissions"])

	req = httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code, "token no longer resolves after logout")
}
