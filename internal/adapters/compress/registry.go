// Package compress provides the minification engines selectable per asset kind.
package compress

import (
	"sort"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry holds the available compression engines by name.
type Registry struct {
	engines map[string]ports.Compressor
}

// NewRegistry creates a Registry with the given engines.
func NewRegistry(engines ...ports.Compressor) *Registry {
	r := &Registry{engines: make(map[string]ports.Compressor, len(engines))}
	for _, e := range engines {
		r.engines[e.Name()] = e
	}
	return r
}

// NewDefaultRegistry creates a Registry with every built-in engine.
func NewDefaultRegistry(executor ports.Executor) *Registry {
	return NewRegistry(
		NewNone(),
		NewSimple(),
		NewMinify(),
		NewEsbuild(),
		NewCommand(executor),
	)
}

// Names returns the registered engine names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the engine configured for kind after validating that it
// exists, supports kind and accepts its options.
func (r *Registry) Resolve(kind domain.Kind, engine domain.Engine) (ports.Compressor, error) {
	c, ok := r.engines[engine.Name]
	if !ok {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrUnknownEngine, "engine not registered"), "engine", engine.Name), "kind", kind.String())
	}
	if !c.Supports(kind) {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrUnknownEngine, "engine does not support kind"), "engine", engine.Name), "kind", kind.String())
	}
	if err := c.Validate(kind, engine.Options); err != nil {
		return nil, zerr.With(err, "engine", engine.Name)
	}
	return c, nil
}

func invalidOption(msg, option, value string) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidConfig, msg), "option", option), "value", value)
}

func unknownOptions(options map[string]string, allowed ...string) error {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		known := false
		for _, a := range allowed {
			if k == a {
				known = true
				break
			}
		}
		if !known {
			return invalidOption("unknown engine option", k, options[k])
		}
	}
	return nil
}
