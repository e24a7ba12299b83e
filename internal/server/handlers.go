package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pagePerception/internal/browser"
)

const (
	defaultSnapshotLimit = 50
	maxSnapshotLimit     = 500
)

type navigateRequest struct {
	URL string `json:"url" binding:"required"`
}

// clickRequest: либо index, либо пара x/y.
type clickRequest struct {
	Index *int     `json:"index"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
}

type inputRequest struct {
	Index      *int     `json:"index"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	Text       string   `json:"text"`
	PressEnter bool     `json:"press_enter"`
}

type selectRequest struct {
	Index  int `json:"index"`
	Option int `json:"option"`
}

type scrollRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
	ToEnd     bool   `json:"to_end"`
}

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type keyRequest struct {
	Key string `json:"key" binding:"required"`
}

type consoleRequest struct {
	Script string `json:"script" binding:"required"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (s *Server) navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.browser.Navigate(c.Request.Context(), req.URL); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "url": req.URL})
}

func (s *Server) perceive(fn func(ctx context.Context) (*browser.PageView, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := fn(c.Request.Context())
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (s *Server) click(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var err error
	switch {
	case req.Index != nil:
		err = s.browser.ClickIndex(c.Request.Context(), *req.Index)
	case req.X != nil && req.Y != nil:
		err = s.browser.ClickAt(c.Request.Context(), *req.X, *req.Y)
	default:
		badRequest(c, "нужен index или x и y")
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) input(c *gin.Context) {
	var req inputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	var err error
	switch {
	case req.Index != nil:
		err = s.browser.InputIndex(ctx, *req.Index, req.Text, req.PressEnter)
	case req.X != nil && req.Y != nil:
		err = s.browser.InputAt(ctx, *req.X, *req.Y, req.Text, req.PressEnter)
	default:
		badRequest(c, "нужен index или x и y")
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.Debug("Текст введен", zap.String("text", s.values.SanitizeValue(req.Text)))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) selectOption(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.browser.SelectOption(c.Request.Context(), req.Index, req.Option); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) scroll(c *gin.Context) {
	var req scrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var err error
	if req.Direction == "up" {
		err = s.browser.ScrollUp(c.Request.Context(), req.ToEnd)
	} else {
		err = s.browser.ScrollDown(c.Request.Context(), req.ToEnd)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.browser.MoveMouse(c.Request.Context(), req.X, req.Y); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) key(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.browser.PressKey(c.Request.Context(), req.Key); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) screenshot(c *gin.Context) {
	full := c.Query("full") == "true"
	data, err := s.browser.Screenshot(c.Request.Context(), full)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) consoleExec(c *gin.Context) {
	var req consoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	result, err := s.browser.ConsoleExec(c.Request.Context(), req.Script)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (s *Server) consoleView(c *gin.Context) {
	lines, err := strconv.Atoi(c.DefaultQuery("lines", "0"))
	if err != nil || lines < 0 {
		badRequest(c, "bad lines")
		return
	}
	messages, err := s.browser.ConsoleView(c.Request.Context(), lines)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *Server) listSnapshots(c *gin.Context) {
	if s.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "история отключена"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSnapshotLimit)))
	if err != nil || limit <= 0 {
		badRequest(c, "bad limit")
		return
	}
	limit = min(limit, maxSnapshotLimit)
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		badRequest(c, "bad offset")
		return
	}

	snapshots, err := s.snapshots.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

func (s *Server) getSnapshot(c *gin.Context) {
	if s.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "история отключена"})
		return
	}

	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "bad id")
		return
	}
	snapshot, err := s.snapshots.GetByID(c.Request.Context(), uint(id64))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
