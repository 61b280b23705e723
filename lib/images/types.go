package images

import "github.com/mockstack/mockstack/lib/store"

// Image is stored in the images collection.
type Image = store.Image

// CreateImageRequest carries the fields accepted on image creation. Absent
// fields fall back to the defaults below.
type CreateImageRequest struct {
	Name            string `json:"name"`
	Size            int64  `json:"size"`
	Visibility      string `json:"visibility"`
	ContainerFormat string `json:"container_format"`
	DiskFormat      string `json:"disk_format"`
}

const (
	StatusQueued = "queued"
	StatusActive = "active"

	DefaultVisibility      = "private"
	DefaultContainerFormat = "bare"
	DefaultDiskFormat      = "qcow2"
)
