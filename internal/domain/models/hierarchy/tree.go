package hierarchy

// TreeEdge is one closure-table row: AncestorID is Level steps above FolderID.
// The direct parent has level 1; there are no self rows.
type TreeEdge struct {
	TenantID   string `json:"tenant_id" db:"tenant_id"`
	FolderID   string `json:"folder_id" db:"folder_id"`
	AncestorID string `json:"ancestor_id" db:"ancestor_id"`
	Level      int    `json:"level" db:"level"`
}
