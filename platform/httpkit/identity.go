package httpkit

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserID returns the authenticated user ID from the gin context, if present.
// Handlers use it to attribute status transitions in logs.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
