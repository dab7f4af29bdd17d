package cache

// Keyer builds cache keys for pipeline artifacts.
type Keyer interface {
	// ArtifactKey names one output format rendered from a scene document.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every option that changes the bytes of an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Pretty   bool    `json:"pretty,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the scene hash and options.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

var _ Keyer = DefaultKeyer{}
