package items

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-item-reviews/internal/api"
	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

var _ Handler = (*ItemsHandlerImpl)(nil)

// Handler defines the HTTP surface for the item catalog.
type Handler interface {
	ListItems(w http.ResponseWriter, r *http.Request)
	GetItem(w http.ResponseWriter, r *http.Request)
}

// ItemsHandlerImpl handles HTTP requests for browsing items.
type ItemsHandlerImpl struct {
	itemsService ItemsService
	logger       *slog.Logger
}

// NewItemsHandlerImpl creates a new ItemsHandlerImpl instance.
func NewItemsHandlerImpl(itemsService ItemsService, logger *slog.Logger) *ItemsHandlerImpl {
	return &ItemsHandlerImpl{
		itemsService: itemsService,
		logger:       logger,
	}
}

// ListItems godoc
// @Summary      List items
// @Description  Returns the item catalog ordered by name
// @Tags         items
// @Produce      json
// @Success      200 {array} types.Item
// @Failure      500 {object} api.Response "Internal server error"
// @Router       /items [get]
func (h *ItemsHandlerImpl) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.itemsService.ListItems(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list items", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch items")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, items)
}

// GetItem godoc
// @Summary      Get item
// @Description  Returns a single item by ID
// @Tags         items
// @Produce      json
// @Param        itemID path string true "Item ID" format(uuid)
// @Success      200 {object} types.Item
// @Failure      400 {object} api.Response "Invalid item ID format"
// @Failure      404 {object} api.Response "Item not found"
// @Router       /items/{itemID} [get]
func (h *ItemsHandlerImpl) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	item, err := h.itemsService.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to fetch item", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch item")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, item)
}
