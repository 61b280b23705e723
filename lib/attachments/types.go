package attachments

import "github.com/mockstack/mockstack/lib/store"

// Attachment is stored in the attachments collection.
type Attachment = store.Attachment

// AttachRequest carries the fields accepted when attaching a volume. The
// handler layer is responsible for resolving the volumeId/volume_id body
// aliases before building one.
type AttachRequest struct {
	VolumeId string
	Device   string
}

// DefaultDevice is used when the caller does not name a device.
const DefaultDevice = "/dev/vdb"
