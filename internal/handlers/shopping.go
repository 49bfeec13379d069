package handlers

import (
	"net/http"

	"recipebox/internal/export"
	applog "recipebox/internal/log"
	"recipebox/internal/store"
)

type purchasedRequest struct {
	Purchased bool `json:"purchased"`
}

func (h *Handlers) writeShoppingList(w http.ResponseWriter, r *http.Request, status int, userID uint) {
	entries, err := h.shopping.GetList(r.Context(), userID)
	if err != nil {
		writeStoreError(w, r, err, "load shopping list")
		return
	}
	if entries == nil {
		entries = []store.ShoppingEntry{}
	}
	writeJSON(w, status, entries)
}

// ShoppingList returns the caller's merged shopping list.
func (h *Handlers) ShoppingList(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.writeShoppingList(w, r, http.StatusOK, h.currentActor(r).UserID)
}

// ImportShoppingList copies the ingredients of the caller's favorites into
// tracked rows. Lines the caller already tracks are left alone.
func (h *Handlers) ImportShoppingList(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	userID := h.currentActor(r).UserID
	if err := h.shopping.ImportFromFavorites(r.Context(), userID); err != nil {
		writeStoreError(w, r, err, "import shopping list")
		return
	}
	applog.Info(r.Context(), "shopping list imported", "user_id", userID)
	h.writeShoppingList(w, r, http.StatusOK, userID)
}

// AddShoppingItem adds or requantifies a manual line.
func (h *Handlers) AddShoppingItem(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	var payload store.ShoppingItemInput
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	userID := h.currentActor(r).UserID
	if err := h.shopping.AddItem(r.Context(), userID, payload); err != nil {
		writeStoreError(w, r, err, "add shopping item")
		return
	}
	h.writeShoppingList(w, r, http.StatusCreated, userID)
}

// ShoppingItem edits (PUT) or removes (DELETE) the line named in the path.
func (h *Handlers) ShoppingItem(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	ctx := r.Context()
	userID := h.currentActor(r).UserID
	name := r.PathValue("name")

	switch r.Method {
	case http.MethodPut:
		var payload store.ShoppingItemInput
		if err := decodeJSON(r, &payload); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		if err := h.shopping.UpdateItem(ctx, userID, name, payload); err != nil {
			writeStoreError(w, r, err, "update shopping item")
			return
		}
		h.writeShoppingList(w, r, http.StatusOK, userID)
	case http.MethodDelete:
		if err := h.shopping.RemoveItem(ctx, userID, name); err != nil {
			writeStoreError(w, r, err, "remove shopping item")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ShoppingItemPurchased toggles the purchased flag of a line. Marking a line
// purchased drops any quantity it tracked.
func (h *Handlers) ShoppingItemPurchased(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	var payload purchasedRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	userID := h.currentActor(r).UserID
	if err := h.shopping.SetPurchased(r.Context(), userID, r.PathValue("name"), payload.Purchased); err != nil {
		writeStoreError(w, r, err, "update shopping item")
		return
	}
	h.writeShoppingList(w, r, http.StatusOK, userID)
}

// ExportShoppingList downloads the caller's list as a workbook.
func (h *Handlers) ExportShoppingList(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	entries, err := h.shopping.GetList(r.Context(), h.currentActor(r).UserID)
	if err != nil {
		writeStoreError(w, r, err, "load shopping list")
		return
	}
	workbook, err := export.ShoppingList(entries)
	if err != nil {
		writeStoreError(w, r, err, "export shopping list")
		return
	}
	writeWorkbook(w, r, "shopping-list.xlsx", func() error { return export.Write(w, workbook) })
}

func writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, write func() error) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := write(); err != nil {
		applog.Error(r.Context(), "failed to write workbook", "file", filename, "error", err)
	}
}
