package handlers

import (
	"encoding/json"
	"net/http"

	"clipshelf/application/projections"
	"clipshelf/application/services"
	"clipshelf/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	items  *services.ItemService
	logger *zap.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(items *services.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		items:  items,
		logger: logger,
	}
}

// CreateItemRequest represents the request body for clipping an item
type CreateItemRequest struct {
	Name        string                 `json:"name" validate:"required"`
	URL         string                 `json:"url" validate:"required,url"`
	ItemType    string                 `json:"item_type" validate:"required"`
	JSONLD      map[string]interface{} `json:"json_ld,omitempty"`
	Image       string                 `json:"image,omitempty"`
	Description string                 `json:"description,omitempty"`
}

// UpdateItemRequest represents the request body for updating an item
type UpdateItemRequest struct {
	Name        *string                `json:"name,omitempty" validate:"omitempty,min=1"`
	Image       *string                `json:"image,omitempty"`
	Description *string                `json:"description,omitempty"`
	JSONLD      map[string]interface{} `json:"json_ld,omitempty"`
}

// CreateItem handles POST /items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	record, err := h.items.CreateItem(r.Context(), services.CreateItemInput{
		Name:        req.Name,
		URL:         req.URL,
		ItemType:    req.ItemType,
		JSONLD:      req.JSONLD,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

// GetItem handles GET /items/{itemID}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	record, err := h.items.GetItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// ListItems handles GET /items. An optional type query parameter filters by
// structured-data type.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var (
		records []*projections.ItemProjection
		err     error
	)
	if itemType := r.URL.Query().Get("type"); itemType != "" {
		records, err = h.items.GetItemsByType(r.Context(), itemType)
	} else {
		records, err = h.items.GetAllActiveItems(r.Context())
	}
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": records,
		"count": len(records),
	})
}

// UpdateItem handles PUT /items/{itemID}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	record, err := h.items.UpdateItem(r.Context(), chi.URLParam(r, "itemID"), services.UpdateItemInput{
		Name:        req.Name,
		Image:       req.Image,
		Description: req.Description,
		JSONLD:      req.JSONLD,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// DeleteItem handles DELETE /items/{itemID}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if err := h.items.DeleteItem(r.Context(), itemID); err != nil {
		respondAppError(w, err)
		return
	}
	h.logger.Info("item deleted via api", zap.String("item_id", itemID))
	respondJSON(w, http.StatusNoContent, nil)
}

// GetItemLists handles GET /items/{itemID}/lists
func (h *ItemHandler) GetItemLists(w http.ResponseWriter, r *http.Request) {
	records, err := h.items.GetListsForItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"lists": records,
		"count": len(records),
	})
}

// Search handles GET /search?q=
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	records, err := h.items.SearchItems(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": records,
		"count": len(records),
	})
}
