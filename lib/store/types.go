package store

// State holds every persisted collection. All access goes through a Store.
type State struct {
	Users       map[string]User
	Tokens      map[string]string
	Images      []Image
	Volumes     []Volume
	Servers     []Server
	Attachments []Attachment
}

// User is a login principal. The users collection is keyed by username.
type User struct {
	Password string `json:"password"`
	Id       string `json:"id"`
	Role     string `json:"role"`
	Domain   string `json:"domain"`
}

type Image struct {
	Id              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	Size            int64  `json:"size"`
	Visibility      string `json:"visibility"`
	ContainerFormat string `json:"container_format"`
	DiskFormat      string `json:"disk_format"`
	CreatedAt       string `json:"created_at"`
}

type Volume struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Size   int    `json:"size"`
	Status string `json:"status"`
}

type Server struct {
	Id       string  `json:"id"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	ImageId  string  `json:"image_id"`
	FlavorId *string `json:"flavor_id"`
}

// Attachment joins a server and a volume. Key casing matches the wire format
// of the mocked API.
type Attachment struct {
	Id         string `json:"id"`
	ServerId   string `json:"serverId"`
	VolumeId   string `json:"volumeId"`
	Device     string `json:"device"`
	AttachedAt string `json:"attached_at"`
}
