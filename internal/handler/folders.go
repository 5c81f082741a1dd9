package handler

import (
	"net/http"

	hierarchySvc "docspace/internal/domain/services/hierarchy"
	"docspace/internal/httputil"
)

// CreateFolder creates a folder under an existing parent
// POST /api/folders
func (h *HierarchyHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req hierarchySvc.CreateFolderRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	if !h.authorizeCreate(w, r, req.ParentID) {
		return
	}

	folder, err := h.svc.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a folder
// GET /api/folders/{id}
func (h *HierarchyHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	folder, err := h.svc.GetFolder(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// GetPath returns a folder with its ancestors, root first
// GET /api/folders/{id}/path
func (h *HierarchyHandler) GetPath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	path, err := h.svc.GetPath(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, path)
}

// GetRoom returns the room containing a folder
// GET /api/folders/{id}/room
func (h *HierarchyHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	room, err := h.svc.RoomOf(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, room)
}

// ListChildren lists subfolders and current files of a folder
// GET /api/folders/{id}/children
func (h *HierarchyHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	contents, err := h.svc.ListChildren(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, contents)
}

type moveRequest struct {
	ParentID string `json:"parent_id"`
}

// MoveFolder re-parents a folder and its subtree
// POST /api/folders/{id}/move
func (h *HierarchyHandler) MoveFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeFolder(w, r, "id")
	if !ok {
		return
	}
	var req moveRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	if !h.authorizeCreate(w, r, req.ParentID) {
		return
	}

	folder, err := h.svc.MoveSubtree(r.Context(), id, req.ParentID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// TrashFolder moves a folder to the trash
// POST /api/folders/{id}/trash
func (h *HierarchyHandler) TrashFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeFolder(w, r, "id")
	if !ok {
		return
	}
	folder, err := h.svc.TrashFolder(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// RestoreFolder takes a folder out of the trash
// POST /api/folders/{id}/restore
func (h *HierarchyHandler) RestoreFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeFolder(w, r, "id")
	if !ok {
		return
	}
	folder, err := h.svc.RestoreFolder(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder permanently deletes a folder subtree
// DELETE /api/folders/{id}
func (h *HierarchyHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeFolder(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSubtree(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetEntryOrder moves an entry to a new position inside the folder
// PUT /api/folders/{id}/order
func (h *HierarchyHandler) SetEntryOrder(w http.ResponseWriter, r *http.Request) {
	parentID, ok := h.authorizeFolder(w, r, "id")
	if !ok {
		return
	}
	var req hierarchySvc.SetOrderRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	req.ParentID = parentID

	entry, err := h.svc.SetEntryOrder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entry)
}
