package request_models

import "github.com/google/uuid"

type CreateItemRequest struct {
	Type    string                 `json:"type" binding:"required"`
	Data    map[string]interface{} `json:"data" binding:"required"`
	Status  string                 `json:"status"`
	BoardID *uuid.UUID             `json:"board_id"`
}

// UpdateItemRequest merges Data into the stored data; a null value removes
// the field.
type UpdateItemRequest struct {
	Data    map[string]interface{} `json:"data"`
	Status  *string                `json:"status"`
	BoardID *uuid.UUID             `json:"board_id"`
}

type ListItemsQuery struct {
	Type   string `form:"type"`
	Status string `form:"status"`
	Search string `form:"search"`
	Sort   string `form:"sort"`
}
