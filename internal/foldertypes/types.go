package foldertypes

import models "docspace/internal/domain/models/hierarchy"

// FolderType describes one folder type and its room defaults
type FolderType struct {
	// Folder type identifier (set from the YAML map key)
	ID models.FolderType `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"display_name"`
	Room        bool   `yaml:"room" json:"room"`

	// Room defaults; ignored for non-room types
	Indexing   bool  `yaml:"indexing" json:"indexing"`
	QuotaBytes int64 `yaml:"quota_bytes" json:"quota_bytes"`
}

// registryFile is the layout of folder_types.yaml
type registryFile struct {
	FolderTypes map[string]FolderType `yaml:"folder_types"`
}
