package cache

import "github.com/matzehuels/stackup/pkg/board"

// ArtifactKeyOpts are the render inputs that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format     string            `json:"format"`
	Stackup    board.Stackup     `json:"stackup"`
	Colors     board.ColorScheme `json:"colors"`
	Scale      float64           `json:"scale,omitempty"`
	Resolution float64           `json:"resolution,omitempty"`
	Shadow     bool              `json:"shadow,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey keys one rendered artifact of the document with the
	// given content hash.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
	// SessionKey keys a render session record.
	SessionKey(id string) string
}

// DefaultKeyer hashes every key input.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256(document, opts)>".
func (DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", documentHash, opts)
}

// SessionKey returns "session:<id>".
func (DefaultKeyer) SessionKey(id string) string {
	return "session:" + id
}
