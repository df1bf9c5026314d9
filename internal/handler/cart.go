package handler

import (
	"log/slog"
	"net/http"

	"learnhub-storefront/internal/i18n"
	"learnhub-storefront/internal/model"
)

// handleGetCart refreshes and returns the cart.
// GET /cart
func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.LoadCart(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, collectionView(h.formatter(r.Context()), snap, h.svc.Selected()))
}

// handleAddToCart adds a course or private lesson.
// POST /cart with {"courseId"} or {"privateLessonId"}
func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var ref model.Reference
	if err := decodeJSON(r, &ref); err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.svc.AddToCart(ctx, ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view := collectionView(h.formatter(ctx), snap, h.svc.Selected())
	view.Notification = i18n.Text(h.prefs(ctx).Locale, i18n.AddedToCart)
	h.writeJSON(w, http.StatusOK, view)
}

// handleRemoveFromCart removes every entry for one reference.
// DELETE /cart/{id}
func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	referenceID := r.PathValue("id")

	h.logger.InfoContext(ctx, "removing from cart",
		slog.String("reference_id", referenceID),
	)

	snap, err := h.svc.RemoveFromCart(ctx, referenceID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view := collectionView(h.formatter(ctx), snap, h.svc.Selected())
	view.Notification = i18n.Text(h.prefs(ctx).Locale, i18n.RemovedFromCart)
	h.writeJSON(w, http.StatusOK, view)
}

// handleClearCart empties the cart.
// DELETE /cart
func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.svc.ClearCart(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view := collectionView(h.formatter(ctx), snap, nil)
	view.Notification = i18n.Text(h.prefs(ctx).Locale, i18n.CartCleared)
	h.writeJSON(w, http.StatusOK, view)
}

// handleGetWishlist refreshes and returns the wishlist.
// GET /wishlist
func (h *Handler) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.LoadWishlist(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, collectionView(h.formatter(r.Context()), snap, nil))
}

// handleToggleWishlist adds or removes one reference.
// POST /wishlist/toggle with {"courseId"} or {"privateLessonId"}
func (h *Handler) handleToggleWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var ref model.Reference
	if err := decodeJSON(r, &ref); err != nil {
		h.writeError(w, r, err)
		return
	}

	added, snap, err := h.svc.ToggleWishlist(ctx, ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	key := i18n.RemovedFromWishlist
	if added {
		key = i18n.AddedToWishlist
	}
	view := ToggleView{Added: added, Wishlist: collectionView(h.formatter(ctx), snap, nil)}
	view.Wishlist.Notification = i18n.Text(h.prefs(ctx).Locale, key)
	h.writeJSON(w, http.StatusOK, view)
}

// handleRemoveFromWishlist removes one reference from the wishlist.
// DELETE /wishlist/{id}
func (h *Handler) handleRemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.svc.RemoveFromWishlist(ctx, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view := collectionView(h.formatter(ctx), snap, nil)
	view.Notification = i18n.Text(h.prefs(ctx).Locale, i18n.RemovedFromWishlist)
	h.writeJSON(w, http.StatusOK, view)
}

// loginRequest is the body of POST /session.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin signs in and persists the token.
// POST /session
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sessionResponse{User: user})
}

// handleLogout forgets the stored token and local state.
// DELETE /session
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	User *model.User `json:"user,omitempty"`
}
