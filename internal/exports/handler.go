package exports

import (
	"github.com/gin-gonic/gin"

	"mrp_backend/platform/httpkit"
)

// Handler handles HTTP requests for snapshot exports.
type Handler struct {
	svc *Service
}

// NewHandler creates a new exports handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// HandleTriggerExport rebuilds the snapshot synchronously. Admin-only escape
// hatch for when the event-driven rebuild is not enough (e.g. after a manual
// database fix).
func (h *Handler) HandleTriggerExport(c *gin.Context) {
	key, err := h.svc.ExportMaterialsSnapshot(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"objectKey": key})
}

// HandleDownloadURL returns a presigned URL for the current artifact.
func (h *Handler) HandleDownloadURL(c *gin.Context) {
	url, err := h.svc.DownloadURL(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, url)
}
