package handler

import (
	"net/http"

	"docspace/internal/domain"
	"docspace/internal/httputil"
	"docspace/internal/tenancy"
)

// caller returns the tenant and user the auth middleware put on the request
func caller(r *http.Request) (tenantID, userID string, err error) {
	tenantID = tenancy.TenantID(r.Context())
	userID = tenancy.UserID(r.Context())
	if tenantID == "" || userID == "" {
		return "", "", &domain.UnauthorizedError{Message: "missing tenant or user"}
	}
	return tenantID, userID, nil
}

// pathID reads a required path value
func pathID(r *http.Request, name string) (string, error) {
	id := r.PathValue(name)
	if id == "" {
		return "", errRequired(name)
	}
	return id, nil
}

// decode parses the body, reporting malformed JSON as a validation error
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		return domain.NewValidation(err.Error())
	}
	return nil
}

func errRequired(field string) error {
	return domain.NewValidation(field + " is required")
}
