package handler

import (
	"net/http"

	hierarchySvc "docspace/internal/domain/services/hierarchy"
	"docspace/internal/httputil"
)

// ListRooms lists the tenant's rooms
// GET /api/rooms
func (h *HierarchyHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.ListRooms(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rooms)
}

// CreateRoom creates a room
// POST /api/rooms
func (h *HierarchyHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req hierarchySvc.CreateRoomRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	room, err := h.svc.CreateRoom(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, room)
}

type setIndexingRequest struct {
	Enabled bool `json:"enabled"`
}

// SetRoomIndexing toggles manual ordering for a room
// PUT /api/rooms/{id}/indexing
func (h *HierarchyHandler) SetRoomIndexing(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.authorizeFolder(w, r, "id")
	if !ok {
		return
	}
	var req setIndexingRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	settings, err := h.svc.SetRoomIndexing(r.Context(), roomID, req.Enabled)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, settings)
}

// RecountRoom recomputes the counters of every folder in a room
// POST /api/rooms/{id}/recount
func (h *HierarchyHandler) RecountRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.authorizeFolder(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.RecountRoom(r.Context(), roomID); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authorizeFolder reads a folder id path value and checks the caller may modify it
func (h *HierarchyHandler) authorizeFolder(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	tenantID, userID, err := caller(r)
	if err != nil {
		handleError(w, err)
		return "", false
	}
	id, err := pathID(r, name)
	if err != nil {
		handleError(w, err)
		return "", false
	}
	if err := h.gate.CanModifyFolder(r.Context(), tenantID, userID, id); err != nil {
		handleError(w, err)
		return "", false
	}
	return id, true
}

// authorizeCreate checks the caller may create entries inside folderID
func (h *HierarchyHandler) authorizeCreate(w http.ResponseWriter, r *http.Request, folderID string) bool {
	tenantID, userID, err := caller(r)
	if err != nil {
		handleError(w, err)
		return false
	}
	if folderID == "" {
		handleError(w, errRequired("folder id"))
		return false
	}
	if err := h.gate.CanCreateIn(r.Context(), tenantID, userID, folderID); err != nil {
		handleError(w, err)
		return false
	}
	return true
}

// authorizeFile reads a file id path value and checks the caller may modify it
func (h *HierarchyHandler) authorizeFile(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID, userID, err := caller(r)
	if err != nil {
		handleError(w, err)
		return "", false
	}
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return "", false
	}
	if err := h.gate.CanModifyFile(r.Context(), tenantID, userID, id); err != nil {
		handleError(w, err)
		return "", false
	}
	return id, true
}
