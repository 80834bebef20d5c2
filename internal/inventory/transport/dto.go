package transport

import "github.com/google/uuid"

type CreateRawMaterialRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Volume *int64 `json:"volume" validate:"required,min=0"`
}

type UpdateRawMaterialRequest struct {
	Volume *int64 `json:"volume" validate:"required,min=0"`
}

type ListRawMaterialsRequest struct {
	Search   string `form:"search" validate:"max=200"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type RawMaterialResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Volume    int64     `json:"volume"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type RawMaterialListResponse struct {
	Items      []RawMaterialResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}
