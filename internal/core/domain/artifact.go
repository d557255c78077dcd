package domain

// Artifact is the combined and minified content of one package build.
type Artifact struct {
	Package     string
	Kind        Kind
	Fingerprint string
	// Path is the busted production route the content belongs at.
	Path    string
	Content []byte
}
