package hierarchy

// EntryType distinguishes order groups inside one parent folder
type EntryType string

const (
	EntryTypeFile   EntryType = "file"
	EntryTypeFolder EntryType = "folder"
)

// EntryTypes lists every entry type, in the order groups are processed
var EntryTypes = []EntryType{EntryTypeFolder, EntryTypeFile}

// Valid reports whether t is a known entry type
func (t EntryType) Valid() bool {
	return t == EntryTypeFile || t == EntryTypeFolder
}

// OrderEntry is the manual position of an entry inside its parent folder.
// Within (tenant, parent, entry type) the orders are exactly 1..n.
type OrderEntry struct {
	TenantID  string    `json:"tenant_id" db:"tenant_id"`
	ParentID  string    `json:"parent_id" db:"parent_folder_id"`
	EntryID   string    `json:"entry_id" db:"entry_id"`
	EntryType EntryType `json:"entry_type" db:"entry_type"`
	Order     int       `json:"order" db:"order"`
}

// OrderGroupStats summarizes an order group for density checks
type OrderGroupStats struct {
	Count    int
	MinOrder int
	MaxOrder int
}

// Dense reports whether the group holds exactly 1..Count
func (s OrderGroupStats) Dense() bool {
	if s.Count == 0 {
		return true
	}
	return s.MinOrder == 1 && s.MaxOrder == s.Count
}
