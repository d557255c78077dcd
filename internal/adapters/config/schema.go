package config

// File represents the structure of the assetpack.yaml configuration file.
type File struct {
	Version      string                `yaml:"version"`
	Mode         string                `yaml:"mode"`
	Host         string                `yaml:"host"`
	Output       string                `yaml:"output"`
	Strict       bool                  `yaml:"strict"`
	Fingerprint  string                `yaml:"fingerprint"`
	ProbeTimeout string                `yaml:"probe_timeout"`
	Ignore       []string              `yaml:"ignore"`
	Source       string                `yaml:"source"`
	Serve        []MountDTO            `yaml:"serve"`
	CSS          EngineDTO             `yaml:"css"`
	JS           EngineDTO             `yaml:"js"`
	Remote       *RemoteDTO            `yaml:"remote"`
	Packages     map[string]PackageDTO `yaml:"packages"`
}

// MountDTO maps a route prefix to a local directory.
type MountDTO struct {
	Route string `yaml:"route"`
	From  string `yaml:"from"`
}

// EngineDTO selects the compression engine of one asset kind.
type EngineDTO struct {
	Compression string            `yaml:"compression"`
	Options     map[string]string `yaml:"options"`
}

// RemoteDTO describes the S3 bucket bundles are published to.
type RemoteDTO struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Prefix   string `yaml:"prefix"`
	Endpoint string `yaml:"endpoint"`
}

// PackageDTO represents a package definition in the configuration.
type PackageDTO struct {
	Type  string   `yaml:"type"`
	Path  string   `yaml:"path"`
	Files []string `yaml:"files"`
}
