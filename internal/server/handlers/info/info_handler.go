package info

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

type InfoHandler struct {
	version     string
	environment string
	hostname    func() (string, error)
}

func New(version, environment string) *InfoHandler {
	return &InfoHandler{
		version:     version,
		environment: environment,
		hostname:    os.Hostname,
	}
}

// Info reports build and runtime details. It has no failure path: an
// unreadable hostname is returned as an empty string.
func (h *InfoHandler) Info(ctx *gin.Context) {
	hostname, err := h.hostname()
	if err != nil {
		slog.Warn("hostname lookup failed", "error", err)
	}

	ctx.PureJSON(http.StatusOK, InfoResponse{
		Version:     h.version,
		Hostname:    hostname,
		Environment: h.environment,
	})
}
