package handler

import (
	"log/slog"
	"net/http"

	"docspace/internal/domain/services"
	hierarchySvc "docspace/internal/domain/services/hierarchy"
	"docspace/internal/httputil"
)

// HierarchyService is the read and write surface of the folder hierarchy
type HierarchyService interface {
	hierarchySvc.Mutator
	hierarchySvc.Reader
}

// HierarchyHandler serves rooms, folders and files. The security gate is
// consulted before every structural change.
type HierarchyHandler struct {
	svc    HierarchyService
	gate   services.SecurityGate
	logger *slog.Logger
}

// NewHierarchyHandler creates a new hierarchy handler
func NewHierarchyHandler(svc HierarchyService, gate services.SecurityGate, logger *slog.Logger) *HierarchyHandler {
	return &HierarchyHandler{svc: svc, gate: gate, logger: logger}
}

// Register mounts every route on mux
func (h *HierarchyHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)

	// Rooms
	mux.HandleFunc("GET /api/rooms", h.ListRooms)
	mux.HandleFunc("POST /api/rooms", h.CreateRoom)
	mux.HandleFunc("PUT /api/rooms/{id}/indexing", h.SetRoomIndexing)
	mux.HandleFunc("POST /api/rooms/{id}/recount", h.RecountRoom)

	// Folders
	mux.HandleFunc("POST /api/folders", h.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", h.GetFolder)
	mux.HandleFunc("GET /api/folders/{id}/path", h.GetPath)
	mux.HandleFunc("GET /api/folders/{id}/room", h.GetRoom)
	mux.HandleFunc("GET /api/folders/{id}/children", h.ListChildren)
	mux.HandleFunc("POST /api/folders/{id}/move", h.MoveFolder)
	mux.HandleFunc("POST /api/folders/{id}/trash", h.TrashFolder)
	mux.HandleFunc("POST /api/folders/{id}/restore", h.RestoreFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.DeleteFolder)
	mux.HandleFunc("PUT /api/folders/{id}/order", h.SetEntryOrder)

	// Files and versions
	mux.HandleFunc("POST /api/files", h.CreateFile)
	mux.HandleFunc("GET /api/files/{id}", h.GetFile)
	mux.HandleFunc("POST /api/files/{id}/move", h.MoveFile)
	mux.HandleFunc("DELETE /api/files/{id}", h.DeleteFile)
	mux.HandleFunc("GET /api/files/{id}/versions", h.ListVersions)
	mux.HandleFunc("POST /api/files/{id}/versions", h.AddVersion)
	mux.HandleFunc("GET /api/files/{id}/versions/stable", h.StableVersion)
	mux.HandleFunc("POST /api/files/{id}/versions/{version}/promote", h.PromoteVersion)
	mux.HandleFunc("DELETE /api/files/{id}/versions/{version}", h.DeleteVersion)
}

// HealthCheck reports liveness
// GET /health
func (h *HierarchyHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
