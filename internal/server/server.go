package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rahul/sahayak/internal/store"
	"github.com/rahul/sahayak/internal/task"
)

// Runner is the slice of the pipeline the HTTP surface drives.
type Runner interface {
	Run(ctx context.Context, channel, command, email string) (*task.Execution, error)
	RunPlan(ctx context.Context, channel string, plan *task.Plan) *task.Execution
}

// History serves the execution history endpoint.
type History interface {
	RecentRuns(limit int) ([]store.RunRecord, error)
}

type RunRequest struct {
	Command string `json:"command"`
	Email   string `json:"email,omitempty"`
}

type RunResponse struct {
	Success   bool            `json:"success"`
	Plan      *task.Plan      `json:"plan"`
	Logs      []task.LogEntry `json:"logs"`
	Timestamp string          `json:"timestamp"`
}

// Server exposes the agent over REST plus a small embedded GUI.
type Server struct {
	Echo      *echo.Echo
	Runner    Runner
	History   History
	Workspace string
}

func New(runner Runner, history History, workspace string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	httpLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		httpLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
	}))

	s := &Server{Echo: e, Runner: runner, History: history, Workspace: workspace}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/", s.handleIndex)
	e.POST("/run", s.handleRun)
	e.POST("/resume", s.handleResume)
	e.GET("/history", s.handleHistory)

	return s
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func (s *Server) handleRun(c echo.Context) error {
	var req RunRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Command) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "command is required")
	}

	ex, err := s.Runner.Run(c.Request().Context(), "api", req.Command, req.Email)
	if err != nil {
		var pErr *task.PlanningError
		var vErr *task.ValidationError
		if errors.As(err, &pErr) || errors.As(err, &vErr) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, executionResponse(ex))
}

// handleResume accepts a multipart resume upload, stores it in the
// workspace and runs the parse -> analyze (-> job match) plan on it.
func (s *Server) handleResume(c echo.Context) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "resume file is required")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".pdf", ".docx", ".doc", ".txt":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unsupported resume format %q", ext))
	}

	path, err := s.saveUpload(fileHeader.Filename, fileHeader)
	if err != nil {
		return fmt.Errorf("failed to store upload: %w", err)
	}

	plan := resumePlan(path, c.FormValue("location"), c.FormValue("match") == "true")
	ex := s.Runner.RunPlan(c.Request().Context(), "api", plan)

	return c.JSON(http.StatusOK, executionResponse(ex))
}

func (s *Server) handleHistory(c echo.Context) error {
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := s.History.RecentRuns(limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []store.RunRecord{}
	}
	return c.JSON(http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) saveUpload(name string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dir := filepath.Join(s.Workspace, "uploads")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	dst := filepath.Join(dir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(name)))
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return dst, nil
}

// resumePlan is the fixed plan behind the resume upload form.
func resumePlan(path, location string, match bool) *task.Plan {
	if location == "" {
		location = "remote"
	}
	steps := []task.Step{
		{ID: 1, Tool: "resume_parse", Args: task.Args{"file_path": path}},
		{ID: 2, Tool: "resume_analyze", Args: task.Args{}},
	}
	if match {
		steps = append(steps, task.Step{ID: 3, Tool: "job_match", Args: task.Args{"location": location, "limit": 10}})
	}
	steps = append(steps, task.Step{
		ID:   len(steps) + 1,
		Tool: "log",
		Args: task.Args{"message": "Completed resume analysis for " + filepath.Base(path)},
	})
	return &task.Plan{Input: "resume analysis: " + filepath.Base(path), Steps: steps}
}

func executionResponse(ex *task.Execution) RunResponse {
	return RunResponse{
		Success:   ex.Success,
		Plan:      ex.Plan,
		Logs:      ex.Log,
		Timestamp: ex.FinishedAt.Format(time.RFC3339),
	}
}
