package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/SubuM/TTS-test/internal/auth"
	"github.com/SubuM/TTS-test/internal/db"
)

// Me returns the authenticated account with its usage stats: GET /api/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "account service not available")
		return
	}

	user, err := db.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			h.sendError(w, http.StatusNotFound, "account no longer exists")
			return
		}
		h.sendError(w, http.StatusInternalServerError, "failed to load account")
		return
	}

	stats, err := db.GetUserStats(ctx, user.ID)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"stats": stats,
	})
}

// GetStats returns the authenticated user's usage: GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "stats not available")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid user id in token")
		return
	}

	stats, err := db.GetUserStats(ctx, userID)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	json.NewEncoder(w).Encode(stats)
}

// GetAdminStats returns usage across all accounts: GET /api/admin/stats
func (h *Handler) GetAdminStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if !claims.IsAdmin {
		h.sendError(w, http.StatusForbidden, "admin access required")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "stats not available")
		return
	}

	rows, err := db.GetAllUserStats(ctx)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"users": rows,
		"count": len(rows),
	})
}
