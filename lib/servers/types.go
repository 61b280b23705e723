package servers

import "github.com/mockstack/mockstack/lib/store"

// Server is stored in the servers collection.
type Server = store.Server

type CreateServerRequest struct {
	Name     string  `json:"name"`
	ImageId  string  `json:"image_id"`
	FlavorId *string `json:"flavor_id"`
}

const (
	StatusBuild  = "BUILD"
	StatusActive = "ACTIVE"
)
