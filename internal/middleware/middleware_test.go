package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"plan-marketplace/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens map[string]string

func (s stubTokens) Parse(token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid token")
}

type stubUsers map[string]*model.User

func (s stubUsers) Profile(_ context.Context, id string) (*model.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

var (
	buyer   = &model.User{Name: "buyer", Role: model.RoleBuyer, Status: model.StatusApproved}
	pending = &model.User{Name: "pending-pro", Role: model.RoleProfessional, Status: model.StatusPending}
	pro     = &model.User{Name: "pro", Role: model.RoleProfessional, Status: model.StatusApproved}
	admin   = &model.User{Name: "admin", Role: model.RoleAdmin}
)

func runChain(t *testing.T, header string, mws ...echo.MiddlewareFunc) (*model.User, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *model.User
	h := func(c echo.Context) error {
		seen = CurrentUser(c)
		return nil
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	err := h(c)
	return seen, err
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func authStubs() (stubTokens, stubUsers) {
	return stubTokens{"tok-buyer": "u1", "tok-ghost": "u404", "tok-pending": "u2", "tok-pro": "u3", "tok-admin": "u4"},
		stubUsers{"u1": buyer, "u2": pending, "u3": pro, "u4": admin}
}

func TestAuthenticate(t *testing.T) {
	tokens, users := authStubs()
	mw := Authenticate(tokens, users)

	u, err := runChain(t, "Bearer tok-buyer", mw)
	require.NoError(t, err)
	assert.Equal(t, buyer, u)

	_, err = runChain(t, "", mw)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))

	_, err = runChain(t, "Basic abc", mw)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))

	_, err = runChain(t, "Bearer nope", mw)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))

	_, err = runChain(t, "Bearer tok-ghost", mw)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestOptionalAuthenticate(t *testing.T) {
	tokens, users := authStubs()
	mw := OptionalAuthenticate(tokens, users)

	u, err := runChain(t, "", mw)
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = runChain(t, "bearer tok-buyer", mw)
	require.NoError(t, err)
	assert.Equal(t, buyer, u)

	_, err = runChain(t, "Bearer nope", mw)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestPredicates(t *testing.T) {
	proOrSeller := HasRole(model.RoleProfessional, model.RoleSeller)
	assert.True(t, proOrSeller(pro))
	assert.False(t, proOrSeller(buyer))

	assert.True(t, Approved()(pro))
	assert.False(t, Approved()(pending))
	assert.True(t, Approved()(admin))

	adminOrApprovedPro := AnyOf(HasRole(model.RoleAdmin), AllOf(proOrSeller, Approved()))
	assert.True(t, adminOrApprovedPro(admin))
	assert.True(t, adminOrApprovedPro(pro))
	assert.False(t, adminOrApprovedPro(pending))
	assert.False(t, adminOrApprovedPro(buyer))
}

func TestAuthorize(t *testing.T) {
	tokens, users := authStubs()
	authn := Authenticate(tokens, users)
	guard := Authorize(HasRole(model.RoleProfessional), Approved())

	_, err := runChain(t, "Bearer tok-pro", authn, guard)
	assert.NoError(t, err)

	_, err = runChain(t, "Bearer tok-pending", authn, guard)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))

	_, err = runChain(t, "Bearer tok-buyer", authn, guard)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))

	_, err = runChain(t, "Bearer tok-admin", authn, AdminOnly())
	assert.NoError(t, err)

	// no Authenticate in front
	_, err = runChain(t, "", guard)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

type memStore struct {
	objects map[string][]byte
	err     error
}

func (m *memStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = b
	return "https://cdn.test/" + key, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func multipartRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, name := range files {
		fw, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteField("title", "Front elevation"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	store := &memStore{objects: map[string][]byte{}}
	e := echo.New()
	req := multipartRequest(t, map[string]string{"image": "Front.JPG", "ignored": "x.txt"})
	c := e.NewContext(req, httptest.NewRecorder())

	var got map[string][]Uploaded
	err := Upload(store, "image")(func(c echo.Context) error {
		got = Uploads(c)
		return nil
	})(c)
	require.NoError(t, err)

	require.Len(t, got["image"], 1)
	up := got["image"][0]
	assert.Regexp(t, regexp.MustCompile(`^uploads/image/[0-9a-f-]{36}\.jpg$`), up.Key)
	assert.Equal(t, "https://cdn.test/"+up.Key, up.URL)
	assert.Equal(t, "Front.JPG", up.Name)
	assert.Equal(t, []byte("content of Front.JPG"), store.objects[up.Key])
	assert.Len(t, store.objects, 1)
}

func TestUpload_StoreFailure(t *testing.T) {
	store := &memStore{objects: map[string][]byte{}, err: errors.New("s3 down")}
	e := echo.New()
	c := e.NewContext(multipartRequest(t, map[string]string{"image": "a.png"}), httptest.NewRecorder())

	err := Upload(store, "image")(func(echo.Context) error { return nil })(c)
	assert.ErrorContains(t, err, "s3 down")
}

func TestUpload_NotMultipart(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())

	err := Upload(&memStore{}, "image")(func(echo.Context) error { return nil })(c)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestUploadKey(t *testing.T) {
	a := UploadKey("planFiles", "House Plan.PDF")
	b := UploadKey("planFiles", "House Plan.PDF")
	assert.Regexp(t, `^uploads/planFiles/.+\.pdf$`, a)
	assert.NotEqual(t, a, b)
}
