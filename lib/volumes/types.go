package volumes

import "github.com/mockstack/mockstack/lib/store"

// Volume is stored in the volumes collection.
type Volume = store.Volume

type CreateVolumeRequest struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// StatusAvailable is the only volume status this system produces.
const StatusAvailable = "available"
