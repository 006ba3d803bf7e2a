package handlers

import (
	"encoding/json"
	"net/http"

	"clipshelf/application/services"
	"clipshelf/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ListHandler handles list-related HTTP requests
type ListHandler struct {
	lists  *services.ListService
	items  *services.ItemService
	logger *zap.Logger
}

// NewListHandler creates a new list handler
func NewListHandler(lists *services.ListService, items *services.ItemService, logger *zap.Logger) *ListHandler {
	return &ListHandler{
		lists:  lists,
		items:  items,
		logger: logger,
	}
}

// CreateListRequest represents the request body for creating a list
type CreateListRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Icon        string `json:"icon" validate:"required,max=50"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateListRequest represents the request body for updating a list
type UpdateListRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,min=1,max=50"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// LinkItemRequest represents the request body for adding an item to a list
type LinkItemRequest struct {
	ItemID string `json:"item_id" validate:"required"`
	Order  int    `json:"order" validate:"gte=0"`
}

// ReorderItemRequest represents the request body for moving an item
type ReorderItemRequest struct {
	Order int `json:"order" validate:"gte=0"`
}

// CreateList handles POST /lists
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	record, err := h.lists.CreateList(r.Context(), req.Name, req.Icon, req.Color, req.Description)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

// GetList handles GET /lists/{listID}
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	record, err := h.lists.GetList(r.Context(), chi.URLParam(r, "listID"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// ListLists handles GET /lists
func (h *ListHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	records, err := h.lists.GetAllLists(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"lists": records,
		"count": len(records),
	})
}

// UpdateList handles PUT /lists/{listID}
func (h *ListHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	var req UpdateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	record, err := h.lists.UpdateList(r.Context(), chi.URLParam(r, "listID"), services.UpdateListInput{
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// DeleteList handles DELETE /lists/{listID}
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if err := h.lists.DeleteList(r.Context(), chi.URLParam(r, "listID")); err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// GetListItems handles GET /lists/{listID}/items
func (h *ListHandler) GetListItems(w http.ResponseWriter, r *http.Request) {
	records, err := h.items.GetItemsForList(r.Context(), chi.URLParam(r, "listID"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": records,
		"count": len(records),
	})
}

// LinkItem handles POST /lists/{listID}/items
func (h *ListHandler) LinkItem(w http.ResponseWriter, r *http.Request) {
	var req LinkItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	listID := chi.URLParam(r, "listID")
	if err := h.items.LinkItemToList(r.Context(), req.ItemID, listID, req.Order); err != nil {
		respondAppError(w, err)
		return
	}

	h.logger.Info("item linked to list",
		zap.String("item_id", req.ItemID), zap.String("list_id", listID))
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"item_id": req.ItemID,
		"list_id": listID,
		"order":   req.Order,
	})
}

// UnlinkItem handles DELETE /lists/{listID}/items/{itemID}
func (h *ListHandler) UnlinkItem(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	itemID := chi.URLParam(r, "itemID")
	if err := h.items.UnlinkItemFromList(r.Context(), itemID, listID); err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ReorderItem handles PUT /lists/{listID}/items/{itemID}/position
func (h *ListHandler) ReorderItem(w http.ResponseWriter, r *http.Request) {
	var req ReorderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	listID := chi.URLParam(r, "listID")
	itemID := chi.URLParam(r, "itemID")
	if err := h.items.ReorderItemInList(r.Context(), itemID, listID, req.Order); err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"item_id": itemID,
		"list_id": listID,
		"order":   req.Order,
	})
}
