package api

import (
	"github.com/mockstack/mockstack/cmd/api/config"
	"github.com/mockstack/mockstack/lib/attachments"
	"github.com/mockstack/mockstack/lib/identity"
	"github.com/mockstack/mockstack/lib/images"
	"github.com/mockstack/mockstack/lib/servers"
	"github.com/mockstack/mockstack/lib/volumes"
)

// ApiService holds the managers behind the HTTP handlers.
type ApiService struct {
	Config            *config.Config
	IdentityManager   identity.Manager
	ImageManager      images.Manager
	VolumeManager     volumes.Manager
	ServerManager     servers.Manager
	AttachmentManager attachments.Manager
}

// New creates a new ApiService
func New(
	config *config.Config,
	identityManager identity.Manager,
	imageManager images.Manager,
	volumeManager volumes.Manager,
	serverManager servers.Manager,
	attachmentManager attachments.Manager,
) *ApiService {
	return &ApiService{
		Config:            config,
		IdentityManager:   identityManager,
		ImageManager:      imageManager,
		VolumeManager:     volumeManager,
		ServerManager:     serverManager,
		AttachmentManager: attachmentManager,
	}
}
