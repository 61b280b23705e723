package store

import (
	"time"

	"github.com/google/uuid"
)

// DefaultState returns the bootstrap contents for every collection: two login
// users, one image, one volume, one server, no tokens, no attachments.
func DefaultState() *State {
	return &State{
		Users: map[string]User{
			"admin": {Password: "secret", Id: "user-1", Role: "admin", Domain: "default"},
			"demo":  {Password: "test", Id: "user-2", Role: "user", Domain: "default"},
		},
		Tokens: map[string]string{},
		Images: []Image{
			{
				Id:              uuid.NewString(),
				Name:            "Cirros",
				Status:          "active",
				Size:            13287936,
				Visibility:      "public",
				ContainerFormat: "bare",
				DiskFormat:      "qcow2",
				CreatedAt:       time.Now().UTC().Format(time.RFC3339),
			},
		},
		Volumes: []Volume{
			{Id: uuid.NewString(), Name: "vol-1", Size: 1, Status: "available"},
		},
		Servers: []Server{
			{Id: uuid.NewString(), Name: "server-1", Status: "ACTIVE"},
		},
		Attachments: []Attachment{},
	}
}
