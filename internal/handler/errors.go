package handler

import (
	"errors"
	"net/http"

	"docspace/internal/domain"
	"docspace/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses
func handleError(w http.ResponseWriter, err error) {
	var (
		cycleErr    *domain.CycleError
		quotaErr    *domain.QuotaError
		conflictErr *domain.ConflictError
	)

	switch {
	case errors.As(err, &cycleErr):
		httputil.RespondErrorWithExtras(w, http.StatusUnprocessableEntity, cycleErr.Error(), map[string]interface{}{
			"folder_id":     cycleErr.FolderID,
			"new_parent_id": cycleErr.NewParentID,
		})
	case errors.As(err, &quotaErr):
		httputil.RespondErrorWithExtras(w, http.StatusInsufficientStorage, quotaErr.Error(), map[string]interface{}{
			"room_id":   quotaErr.RoomID,
			"quota":     quotaErr.Quota,
			"used":      quotaErr.Used,
			"requested": quotaErr.Requested,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrConcurrentModification), errors.Is(err, domain.ErrOrderConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidOperation), errors.Is(err, domain.ErrCycleDetected):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrStorageQuotaExceeded):
		httputil.RespondError(w, http.StatusInsufficientStorage, err.Error())
	case errors.Is(err, domain.ErrTransient):
		httputil.RespondError(w, http.StatusServiceUnavailable, "temporarily unavailable, retry later")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
