// Package config provides the configuration loader for assetpack.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up when none is given.
const DefaultFilename = "assetpack.yaml"

const (
	defaultOutput = "public"
	defaultRegion = "us-east-1"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Filename string
	Logger   ports.Logger
}

// NewLoader creates a Loader looking for the default file name.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Filename: DefaultFilename, Logger: logger}
}

// Load finds the configuration file in cwd or its closest ancestor and loads it.
// When cwd names a regular file, or Filename is absolute, that file is loaded directly.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	if info, err := os.Stat(cwd); err == nil && info.Mode().IsRegular() {
		return LoadFile(cwd)
	}

	filename := l.Filename
	if filename == "" {
		filename = DefaultFilename
	}
	if filepath.IsAbs(filename) {
		return LoadFile(filename)
	}

	p, err := findConfig(cwd, filename)
	if err != nil {
		return nil, err
	}
	if l.Logger != nil {
		l.Logger.Debug("using configuration " + p)
	}
	return LoadFile(p)
}

func findConfig(cwd, filename string) (string, error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve working directory")
	}

	for {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "configuration file not found"), "file", filename)
}

// LoadFile reads and validates the configuration file at p.
func LoadFile(p string) (*domain.Config, error) {
	data, err := os.ReadFile(p) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "configuration file not found"), "file", p)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "file", p)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "file", p)
	}

	root, err := filepath.Abs(filepath.Dir(p))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve config directory")
	}

	return Build(&file, root)
}

// Build validates a parsed file and converts it into a domain.Config rooted at root.
func Build(file *File, root string) (*domain.Config, error) {
	if file.Version != "" && file.Version != "1" {
		return nil, invalid("unsupported version", "version", file.Version)
	}

	cfg := &domain.Config{
		Root:         root,
		Host:         strings.TrimSuffix(file.Host, "/"),
		Strict:       file.Strict,
		Ignore:       file.Ignore,
		Source:       strings.TrimSuffix(file.Source, "/"),
		ProbeTimeout: domain.DefaultProbeTimeout,
		Engines:      make(map[domain.Kind]domain.Engine),
	}

	mode, err := ParseMode(file.Mode)
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode

	switch domain.FingerprintStrategy(file.Fingerprint) {
	case "", domain.FingerprintMTime:
		cfg.Fingerprint = domain.FingerprintMTime
	case domain.FingerprintContent:
		cfg.Fingerprint = domain.FingerprintContent
	default:
		return nil, invalid("unknown fingerprint strategy", "fingerprint", file.Fingerprint)
	}

	if file.ProbeTimeout != "" {
		d, err := time.ParseDuration(file.ProbeTimeout)
		if err != nil || d <= 0 {
			return nil, invalid("probe_timeout must be a positive duration", "probe_timeout", file.ProbeTimeout)
		}
		cfg.ProbeTimeout = d
	}

	if cfg.Ignore == nil {
		cfg.Ignore = append([]string(nil), domain.DefaultIgnore...)
	}
	for _, pattern := range cfg.Ignore {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, invalid("malformed ignore pattern", "ignore", pattern)
		}
	}

	output := file.Output
	if output == "" {
		output = defaultOutput
	}
	cfg.OutputDir = resolve(root, output)

	mounts, err := buildMounts(file.Serve, root)
	if err != nil {
		return nil, err
	}
	cfg.Mounts = mounts

	if file.CSS.Compression != "" {
		cfg.Engines[domain.KindStyle] = domain.Engine{Name: file.CSS.Compression, Options: file.CSS.Options}
	}
	if file.JS.Compression != "" {
		cfg.Engines[domain.KindScript] = domain.Engine{Name: file.JS.Compression, Options: file.JS.Options}
	}

	if file.Remote != nil && file.Remote.Bucket != "" {
		region := file.Remote.Region
		if region == "" {
			region = defaultRegion
		}
		cfg.Remote = &domain.Remote{
			Bucket:   file.Remote.Bucket,
			Region:   region,
			Prefix:   file.Remote.Prefix,
			Endpoint: file.Remote.Endpoint,
		}
	}

	packages, err := buildPackages(file.Packages)
	if err != nil {
		return nil, err
	}
	cfg.Packages = packages

	return cfg, nil
}

// ParseMode converts a mode name into a domain.Mode. Empty means development.
func ParseMode(s string) (domain.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development":
		return domain.ModeDevelopment, nil
	case "prod", "production":
		return domain.ModeProduction, nil
	default:
		return "", invalid("unknown mode", "mode", s)
	}
}

func buildMounts(dtos []MountDTO, root string) ([]domain.Mount, error) {
	if len(dtos) == 0 {
		return []domain.Mount{{Route: "/", From: root}}, nil
	}

	mounts := make([]domain.Mount, 0, len(dtos))
	for _, dto := range dtos {
		if !strings.HasPrefix(dto.Route, "/") {
			return nil, invalid("mount route must be absolute", "serve.route", dto.Route)
		}
		if dto.From == "" {
			return nil, invalid("mount requires a source directory", "serve.from", dto.Route)
		}
		route := path.Clean(dto.Route)
		mounts = append(mounts, domain.Mount{Route: route, From: resolve(root, dto.From)})
	}
	return mounts, nil
}

func buildPackages(dtos map[string]PackageDTO) ([]domain.Package, error) {
	names := make([]string, 0, len(dtos))
	for name := range dtos {
		names = append(names, name)
	}
	sort.Strings(names)

	packages := make([]domain.Package, 0, len(names))
	outputs := make(map[string]string, len(names))
	for _, name := range names {
		dto := dtos[name]

		if strings.TrimSpace(name) == "" {
			return nil, invalid("package name must not be empty", "packages", name)
		}

		kind, err := domain.ParseKind(dto.Type)
		if err != nil {
			return nil, zerr.With(err, "package", name)
		}

		if dto.Path == "" {
			return nil, zerr.With(invalid("package path must not be empty", "path", dto.Path), "package", name)
		}
		p := dto.Path
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		p = path.Clean(p)

		if len(dto.Files) == 0 {
			return nil, zerr.With(invalid("package files must not be empty", "files", ""), "package", name)
		}

		if other, ok := outputs[p]; ok {
			return nil, zerr.With(zerr.With(invalid("duplicate output path", "path", p), "package", name), "other_package", other)
		}
		outputs[p] = name

		packages = append(packages, domain.Package{
			Name:      name,
			Kind:      kind,
			Path:      p,
			Filespecs: append([]string(nil), dto.Files...),
		})
	}
	return packages, nil
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

func invalid(msg, field, value string) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidConfig, msg), "field", field), "value", value)
}
