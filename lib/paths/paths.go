// Package paths provides centralized path construction for the mockstack data directory.
package paths

import "path/filepath"

// Paths provides typed path construction for the mockstack data directory.
type Paths struct {
	dataDir string
}

// New creates a new Paths instance for the given data directory.
func New(dataDir string) *Paths {
	return &Paths{dataDir: dataDir}
}

// DataDir returns the root data directory.
func (p *Paths) DataDir() string {
	return p.dataDir
}

// Collection returns the path to a collection document.
func (p *Paths) Collection(name string) string {
	return filepath.Join(p.dataDir, name+".json")
}

// Collection path methods

// Users returns the path to the users collection.
func (p *Paths) Users() string {
	return p.Collection("users")
}

// Tokens returns the path to the tokens collection.
func (p *Paths) Tokens() string {
	return p.Collection("tokens")
}

// Images returns the path to the images collection.
func (p *Paths) Images() string {
	return p.Collection("images")
}

// Volumes returns the path to the volumes collection.
func (p *Paths) Volumes() string {
	return p.Collection("volumes")
}

// Servers returns the path to the servers collection.
func (p *Paths) Servers() string {
	return p.Collection("servers")
}

// Attachments returns the path to the attachments collection.
func (p *Paths) Attachments() string {
	return p.Collection("attachments")
}
