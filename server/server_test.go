package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LafeLabs/freepants"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "book", "pages"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "php"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), nil, 0644))
	return New(freepants.MustBootstrap(), freepants.DefaultConfig(), root), root
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if method == http.MethodPost && strings.Contains(body, "=") {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Dir(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer(t)

	w := do(s, http.MethodGet, "/dir?type=dir", "")
	assert.Equal(http.StatusOK, w.Code)
	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal([]string{"book"}, names)

	w = do(s, http.MethodGet, "/dir", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal([]string{"book", "index.html", "php"}, names)

	w = do(s, http.MethodGet, "/dir?type=.html", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal([]string{"index.html"}, names)

	w = do(s, http.MethodGet, "/dir?filename=nowhere", "")
	assert.Equal(http.StatusNotFound, w.Code)
}

func TestServer_Remove(t *testing.T) {
	assert := assert.New(t)
	s, root := newTestServer(t)

	w := do(s, http.MethodPost, "/rdelete", url.Values{"filename": {"book"}}.Encode())
	assert.Equal(http.StatusNoContent, w.Code)
	_, err := os.Stat(filepath.Join(root, "book"))
	assert.True(os.IsNotExist(err))

	w = do(s, http.MethodPost, "/rdelete", url.Values{"filename": {"/"}}.Encode())
	assert.Equal(http.StatusForbidden, w.Code)
}

func TestServer_Render(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer(t)

	w := do(s, http.MethodGet, "/render?glyph="+url.QueryEscape("0201,0201,"), "")
	assert.Equal(http.StatusOK, w.Code)
	assert.Equal("image/svg+xml", w.Header().Get("Content-Type"))
	assert.Equal(2, strings.Count(w.Body.String(), "<line"))

	w = do(s, http.MethodGet, "/render/0204", "")
	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), "Z\"")

	w = do(s, http.MethodGet, "/render?glyph=09", "")
	assert.Equal(http.StatusBadRequest, w.Code)

	w = do(s, http.MethodGet, "/png/0204?icon=16", "")
	assert.Equal(http.StatusOK, w.Code)
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(16, img.Bounds().Dx())
}

func TestServer_Glyphs(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer(t)

	w := do(s, http.MethodPut, "/glyph/01777", "01777,")
	assert.Equal(http.StatusNoContent, w.Code)
	w = do(s, http.MethodGet, "/glyph/01777", "")
	assert.Equal("01777,", w.Body.String())

	w = do(s, http.MethodGet, "/render/01777", "")
	assert.Equal(http.StatusUnprocessableEntity, w.Code)

	w = do(s, http.MethodPut, "/glyph/01777", "0330,xx,")
	assert.Equal(http.StatusBadRequest, w.Code)
	w = do(s, http.MethodGet, "/glyph/02000", "")
	assert.Equal(http.StatusBadRequest, w.Code)
}

func TestServer_ExportImport(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer(t)

	w := do(s, http.MethodGet, "/export?start=0203&end=0204", "")
	assert.Equal(http.StatusOK, w.Code)
	var recs []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	assert.Equal([]string{"0203:0344,0330,", "0204:0362,0203,0334,0203,0334,0203,0334,0203,0334,0363,"}, recs)

	w = do(s, http.MethodPost, "/import", `["01776:0342,", "01777:0341,"]`)
	assert.Equal(http.StatusOK, w.Code)
	assert.JSONEq(`{"imported": 2}`, w.Body.String())
	g, _ := s.Space().Get(01776)
	assert.Equal(freepants.Glyph("0342,"), g)

	w = do(s, http.MethodPost, "/import", "01775:0342,\nbroken")
	assert.Equal(http.StatusBadRequest, w.Code)
	g, _ = s.Space().Get(01775)
	assert.Empty(g)

	w = do(s, http.MethodGet, "/export?end=9", "")
	assert.Equal(http.StatusBadRequest, w.Code)
}
