// Package httpapp wires the JSON API over echo.
package httpapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/adbridge/adbridge/internal/apperrors"
	"github.com/adbridge/adbridge/internal/config"
	"github.com/adbridge/adbridge/internal/http/handlers"
)

// EchoServer is the HTTP server wrapper.
type EchoServer struct {
	h   *handlers.Handlers
	e   *echo.Echo
	srv *http.Server
}

// NewEchoServer creates a new HTTP server.
func NewEchoServer(cfg config.Config, orch handlers.Orchestrator) (*EchoServer, error) {
	h := &handlers.Handlers{Cfg: cfg, Orch: orch}
	es := &EchoServer{h: h, e: echo.New()}
	es.e.HTTPErrorHandler = es.httpErrorHandler
	es.registerRoutes()
	return es, nil
}

func (es *EchoServer) registerRoutes() {
	es.e.Use(middleware.Recover())
	es.e.Use(requestID)

	es.e.GET("/healthz", es.h.HandleHealthz)

	api := es.e.Group("/api")
	api.GET("/providers", es.h.HandleListProviders)
	api.GET("/integrations", es.h.HandleListIntegrations)
	api.POST("/integrations/:provider/connect", es.h.HandleConnect)
	api.DELETE("/integrations/:id", es.h.HandleDisconnect)
	api.GET("/integrations/:id/progress", es.h.HandleIntegrationProgress)
	api.GET("/sync-progress", es.h.HandleSyncProgress)
	api.GET("/data-points", es.h.HandleDataPoints)
}

// requestID tags every request with an id for log correlation and client
// error references. An inbound X-Request-ID is honored.
func requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := strings.TrimSpace(c.Request().Header.Get("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handlers.ContextKeyRequestID, id)
		c.Response().Header().Set("X-Request-ID", id)
		return next(c)
	}
}

type errorBody struct {
	Kind      apperrors.Kind `json:"kind"`
	Step      apperrors.Step `json:"step,omitempty"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// httpErrorHandler renders classified errors as structured JSON and keeps
// everything unclassified generic: internal details never reach clients.
func (es *EchoServer) httpErrorHandler(c *echo.Context, err error) {
	if resp, uerr := echo.UnwrapResponse(c.Response()); uerr == nil && resp.Committed {
		return
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status := httpStatusFromKind(appErr.Kind)
		c.Logger().Warn("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"kind", string(appErr.Kind),
			"step", string(appErr.Step),
			"status", status,
		)
		_ = c.JSON(status, errorResponse{Error: errorBody{
			Kind:      appErr.Kind,
			Step:      appErr.Step,
			Message:   apperrors.MessageOf(appErr),
			Retryable: apperrors.Retryable(appErr),
		}})
		return
	}

	status := httpStatusFromError(err)
	requestID, _ := c.Get(handlers.ContextKeyRequestID).(string)
	c.Logger().Error("http error",
		"request_id", requestID,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"ip", c.RealIP(),
		"error", err,
	)

	switch status {
	case http.StatusNotFound:
		_ = c.String(status, "404 page not found")
	case http.StatusInternalServerError:
		msg := "Internal server error."
		if requestID != "" {
			msg = fmt.Sprintf("%s Reference: %s.", msg, requestID)
		}
		msg = fmt.Sprintf("%s Code: %s.", msg, handlers.InternalErrorCode)
		_ = c.String(status, msg)
	default:
		_ = c.String(status, http.StatusText(status))
	}
}

func httpStatusFromKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindInvalidCredentials:
		return http.StatusBadRequest
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindCatalogUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// httpStatusFromError classifies router and handler errors. Echo's sentinel
// errors are unexported types behind the HTTPStatusCoder interface, so the
// *echo.HTTPError check alone would miss them.
func httpStatusFromError(err error) int {
	var sc echo.HTTPStatusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 100 {
			return code
		}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code >= 100 {
		return he.Code
	}
	return http.StatusInternalServerError
}

// StartServer serves on the provided http.Server until it is shut down.
func (es *EchoServer) StartServer(server *http.Server) error {
	server.Handler = es.e
	es.srv = server
	return server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (es *EchoServer) Shutdown(ctx context.Context) error {
	if es.srv == nil {
		return nil
	}
	return es.srv.Shutdown(ctx)
}
