package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/chimei/internal/version"
)

type Server struct {
	service *NameService
	metrics http.Handler
}

// NewServer builds the HTTP surface. metrics may be nil to omit /metrics.
func NewServer(service *NameService, metrics http.Handler) *Server {
	return &Server{
		service: service,
		metrics: metrics,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/names", s.handleCreateNames)
	e.GET("/v1/names", s.handleListNames)
	e.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		e.GET("/metrics", s.handleMetrics)
	}
}

func (s *Server) handleCreateNames(c *echo.Context) error {
	if s.service == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "name service not configured", "", "")
	}
	req, err := decodeJSON[NamesRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error(), "")
	}
	return s.respond(c, &req)
}

// handleListNames is the query-string form of POST /v1/names.
func (s *Server) handleListNames(c *echo.Context) error {
	if s.service == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "name service not configured", "", "")
	}
	var req NamesRequest
	if q := c.QueryParam("count"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return writeGenerationError(c, invalidParam("count", "not an integer: %q", q))
		}
		req.Count = &n
	}
	if q := c.QueryParam("seed"); q != "" {
		seed, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return writeGenerationError(c, invalidParam("seed", "not an integer: %q", q))
		}
		req.Seed = &seed
	}
	if q := c.QueryParam("raw"); q != "" {
		raw, err := strconv.ParseBool(q)
		if err != nil {
			return writeGenerationError(c, invalidParam("raw", "not a boolean: %q", q))
		}
		req.Raw = raw
	}
	return s.respond(c, &req)
}

func (s *Server) respond(c *echo.Context, req *NamesRequest) error {
	resp, err := s.service.CreateNames(c.Request().Context(), req)
	if err != nil {
		return writeGenerationError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *echo.Context) error {
	resp := HealthResponse{
		Status:  "ok",
		Engine:  "unconfigured",
		Version: version.String(),
	}
	if s.service != nil {
		resp.Engine = s.service.EngineState().String()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMetrics(c *echo.Context) error {
	s.metrics.ServeHTTP(c.Response(), c.Request())
	return nil
}
