package handler

import (
	"net/http"

	hierarchySvc "docspace/internal/domain/services/hierarchy"
	"docspace/internal/httputil"
)

// CreateFile creates version 1 of a file
// POST /api/files
func (h *HierarchyHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req hierarchySvc.CreateFileRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	if !h.authorizeCreate(w, r, req.FolderID) {
		return
	}

	file, err := h.svc.CreateFile(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, file)
}

// GetFile returns the current version of a file
// GET /api/files/{id}
func (h *HierarchyHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	file, err := h.svc.GetFile(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}

type moveFileRequest struct {
	FolderID string `json:"folder_id"`
}

// MoveFile moves a file to another folder
// POST /api/files/{id}/move
func (h *HierarchyHandler) MoveFile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeFile(w, r)
	if !ok {
		return
	}
	var req moveFileRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	if !h.authorizeCreate(w, r, req.FolderID) {
		return
	}

	file, err := h.svc.MoveFile(r.Context(), id, req.FolderID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}

// DeleteFile deletes a file with all its versions
// DELETE /api/files/{id}
func (h *HierarchyHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeFile(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteFile(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVersions lists every version of a file
// GET /api/files/{id}/versions
func (h *HierarchyHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	versions, err := h.svc.ListVersions(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, versions)
}

// StableVersion returns the newest version that is not a system forcesave,
// optionally capped by ?max=
// GET /api/files/{id}/versions/stable
func (h *HierarchyHandler) StableVersion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	file, err := h.svc.StableVersion(r.Context(), id, httputil.QueryInt(r, "max", 0))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}

// AddVersion appends a version and makes it current
// POST /api/files/{id}/versions
func (h *HierarchyHandler) AddVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeFile(w, r)
	if !ok {
		return
	}
	var req hierarchySvc.AddVersionRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	req.FileID = id

	file, err := h.svc.AddFileVersion(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, file)
}

type promoteRequest struct {
	ExpectedCurrent int `json:"expected_current,omitempty"`
}

// PromoteVersion makes an older version current
// POST /api/files/{id}/versions/{version}/promote
func (h *HierarchyHandler) PromoteVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeFile(w, r)
	if !ok {
		return
	}
	version, ok := httputil.PathInt(r, "version")
	if !ok {
		handleError(w, errRequired("numeric version"))
		return
	}
	var req promoteRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &req); err != nil {
			handleError(w, err)
			return
		}
	}

	file, err := h.svc.PromoteFileVersion(r.Context(), &hierarchySvc.PromoteVersionRequest{
		FileID:          id,
		Version:         version,
		ExpectedCurrent: req.ExpectedCurrent,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}

// DeleteVersion deletes a non-current version
// DELETE /api/files/{id}/versions/{version}
func (h *HierarchyHandler) DeleteVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeFile(w, r)
	if !ok {
		return
	}
	version, ok := httputil.PathInt(r, "version")
	if !ok {
		handleError(w, errRequired("numeric version"))
		return
	}
	if err := h.svc.DeleteFileVersion(r.Context(), id, version); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
