// Package server exposes a glyph table, its renderer and the site directory
// collaborators over HTTP.
package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/LafeLabs/freepants"
	"github.com/LafeLabs/freepants/dirsvc"
)

// maxBody bounds the size of an imported glyph table.
const maxBody = 4 << 20

// Server serves one shared address space. Every render request runs on its
// own machine, so requests only contend on the table lock.
type Server struct {
	root string
	cfg  freepants.Config

	mu    sync.RWMutex
	space *freepants.AddressSpace

	engine *gin.Engine
	log    commonlog.Logger
}

// New returns a server over the address space, serving the directory
// collaborators from root.
func New(space *freepants.AddressSpace, cfg freepants.Config, root string) *Server {
	s := &Server{
		root:   root,
		cfg:    cfg,
		space:  space,
		engine: gin.New(),
		log:    commonlog.GetLogger("server"),
	}
	s.engine.Use(gin.Recovery(), s.logRequests)

	s.engine.GET("/dir", s.listDir)
	s.engine.POST("/rdelete", s.removeDir)
	s.engine.GET("/render", s.renderSVG)
	s.engine.GET("/render/:address", s.renderSVG)
	s.engine.GET("/png", s.renderPNG)
	s.engine.GET("/png/:address", s.renderPNG)
	s.engine.GET("/glyph/:address", s.getGlyph)
	s.engine.PUT("/glyph/:address", s.putGlyph)
	s.engine.GET("/export", s.export)
	s.engine.POST("/import", s.importTable)
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Noticef("listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

// Space returns a copy of the served address space.
func (s *Server) Space() *freepants.AddressSpace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.space.Clone()
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debugf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, freepants.ErrInvalidAddress), errors.Is(err, freepants.ErrMalformedRecord):
		status = http.StatusBadRequest
	case errors.Is(err, freepants.ErrCycleDetected), errors.Is(err, freepants.ErrRecursionLimit):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, dirsvc.ErrRootRemoval):
		status = http.StatusForbidden
	case errors.Is(err, os.ErrNotExist):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.log.Errorf("%s %s: %s", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) listDir(c *gin.Context) {
	names, err := dirsvc.List(s.root, c.Query("filename"), c.Query("type"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (s *Server) removeDir(c *gin.Context) {
	if err := dirsvc.Remove(s.root, c.PostForm("filename")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// render runs the requested glyph on a fresh machine. The glyph is taken from
// the address path parameter or from the glyph query parameter.
func (s *Server) render(c *gin.Context) (*freepants.VM, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vm, err := freepants.NewVM(s.space, s.cfg)
	if err != nil {
		return nil, err
	}
	g := freepants.Glyph(c.Query("glyph"))
	if p := c.Param("address"); p != "" {
		a, err := freepants.ParseAddress(p)
		if err != nil {
			return nil, err
		}
		if g, err = s.space.Get(a); err != nil {
			return nil, err
		}
	}
	if spelled, _ := strconv.ParseBool(c.Query("spelled")); spelled {
		return vm, vm.RenderSpelled(g)
	}
	return vm, vm.Render(g)
}

func (s *Server) renderSVG(c *gin.Context) {
	vm, err := s.render(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(vm.SVG()))
}

func (s *Server) renderPNG(c *gin.Context) {
	vm, err := s.render(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if size, _ := strconv.Atoi(c.Query("icon")); size > 0 {
		err = freepants.Encode(&buf, freepants.Icon(vm.Image(), size), ".png")
	} else {
		err = freepants.Encode(&buf, vm.Image(), ".png")
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) getGlyph(c *gin.Context) {
	a, err := freepants.ParseAddress(c.Param("address"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.mu.RLock()
	g, _ := s.space.Get(a)
	s.mu.RUnlock()
	c.String(http.StatusOK, string(g))
}

func (s *Server) putGlyph(c *gin.Context) {
	a, err := freepants.ParseAddress(c.Param("address"))
	if err != nil {
		s.fail(c, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		s.fail(c, err)
		return
	}
	g := freepants.Glyph(body)
	if _, err := g.Tokens(); err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	_ = s.space.Set(a, g)
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) export(c *gin.Context) {
	start, end := freepants.Address(0), freepants.Address(freepants.AddressCount-1)
	var err error
	if q := c.Query("start"); q != "" {
		if start, err = freepants.ParseAddress(q); err != nil {
			s.fail(c, err)
			return
		}
	}
	if q := c.Query("end"); q != "" {
		if end, err = freepants.ParseAddress(q); err != nil {
			s.fail(c, err)
			return
		}
	}

	s.mu.RLock()
	recs, err := freepants.Records(s.space, start, end)
	s.mu.RUnlock()
	if err != nil {
		s.fail(c, err)
		return
	}
	data, err := freepants.Marshal(recs)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) importTable(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		s.fail(c, err)
		return
	}
	recs, err := freepants.Unmarshal(body)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	freepants.ImportRecords(s.space, recs)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"imported": len(recs)})
}
