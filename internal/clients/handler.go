package clients

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mrp_backend/platform/httpkit"
	"mrp_backend/platform/validator"
)

// Handler handles HTTP requests for the client registry.
type Handler struct {
	repo *Repository
	val  *validator.Validator
}

// NewHandler creates a new clients handler.
func NewHandler(repo *Repository, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

type CreateClientRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=200"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=320"`
}

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

// HandleCreate registers a client.
func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	client, err := h.repo.Create(c.Request.Context(), strings.TrimSpace(req.Name), req.Email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, toClientResponse(client))
}

// HandleGet retrieves a client by ID.
func (h *Handler) HandleGet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid client id", nil)
		return
	}

	client, err := h.repo.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toClientResponse(client))
}

// HandleList returns all clients.
func (h *Handler) HandleList(c *gin.Context) {
	clientList, err := h.repo.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]ClientResponse, len(clientList))
	for i, client := range clientList {
		responses[i] = toClientResponse(client)
	}
	httpkit.OK(c, gin.H{"items": responses})
}

func toClientResponse(client Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		CreatedAt: client.CreatedAt.Format(time.RFC3339),
	}
}
