package foldertypes

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	models "docspace/internal/domain/models/hierarchy"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the folder types loaded from the embedded YAML file
type Registry struct {
	types map[models.FolderType]*FolderType
	mu    sync.RWMutex
}

// NewRegistry creates a registry and loads the embedded folder types
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/folder_types.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read folder types: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML content
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folder types: %w", err)
	}
	if len(file.FolderTypes) == 0 {
		return nil, fmt.Errorf("no folder types defined")
	}

	r := &Registry{types: make(map[models.FolderType]*FolderType, len(file.FolderTypes))}
	for id, ft := range file.FolderTypes {
		ft := ft
		ft.ID = models.FolderType(id)
		if ft.QuotaBytes < 0 {
			return nil, fmt.Errorf("folder type %s: negative quota", id)
		}
		r.types[ft.ID] = &ft
	}
	if _, ok := r.types[models.FolderTypeDefault]; !ok {
		return nil, fmt.Errorf("folder type %q must be defined", models.FolderTypeDefault)
	}
	return r, nil
}

// Get returns a folder type
func (r *Registry) Get(id models.FolderType) (*FolderType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ft, ok := r.types[id]
	if !ok {
		return nil, fmt.Errorf("unknown folder type: %s", id)
	}
	return ft, nil
}

// IsRoom reports whether the type is a room type; unknown types are not rooms
func (r *Registry) IsRoom(id models.FolderType) bool {
	ft, err := r.Get(id)
	return err == nil && ft.Room
}

// DefaultSettings returns the room settings a room of this type starts with
func (r *Registry) DefaultSettings(id models.FolderType) models.RoomSettings {
	ft, err := r.Get(id)
	if err != nil || !ft.Room {
		return models.RoomSettings{}
	}
	return models.RoomSettings{Indexing: ft.Indexing, QuotaBytes: ft.QuotaBytes}
}

// RoomTypes lists the room types sorted by id
func (r *Registry) RoomTypes() []FolderType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]FolderType, 0, len(r.types))
	for _, ft := range r.types {
		if ft.Room {
			out = append(out, *ft)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
