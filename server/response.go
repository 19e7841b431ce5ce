package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/chaos-io/cutout/compose"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type response struct {
	Status string `json:"status"`
	Image  string `json:"image,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

func success(c *gin.Context, p *compose.Payload) {
	c.JSON(http.StatusOK, response{Status: "success", Image: p.DataURL()})
}

// badRequest answers a transport-level validation failure.
func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, response{Status: "error", Error: msg})
}

// fail maps a pipeline error onto the uniform error response.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	kind := compose.KindOf(err)

	fields := []zap.Field{
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("kind", string(kind)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Info("request rejected", fields...)
	}

	c.AbortWithStatusJSON(status, response{Status: "error", Error: err.Error(), Kind: string(kind)})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case compose.IsClientError(err):
		return http.StatusBadRequest
	case compose.KindOf(err) == compose.KindSegmentation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) recover(c *gin.Context, rec any) {
	s.fail(c, fmt.Errorf("internal error: %v", rec))
}
