package forma

import (
	"fmt"
	"reflect"
)

// NormalizerRegistry resolves raw submission sources to normalizers.
//
// Multiple normalizers can be registered for each source type. If only
// one is registered for a type it is used automatically; with several,
// use WithNormalizer() to pick one by name.
//
// A registry is an explicit dependency of FormParser rather than hidden
// package state: construct one per deployment and share it.
type NormalizerRegistry struct {
	m map[reflect.Type]map[string]Normalizer // source type -> name -> normalizer
}

// NormalizerRegistryContext is a registry curried with a specific
// normalizer selection.
type NormalizerRegistryContext struct {
	registry *NormalizerRegistry
	name     string
}

type NormalizerRegistryOpts struct {
	Normalizers     []Normalizer
	ExcludeDefaults bool
}

func builtinNormalizers() []Normalizer {
	return []Normalizer{
		NewValuesNormalizer(),
		NewJSONNormalizer(),
		NewHTTPRequestNormalizer(HTTPRequestNormalizerOpts{}),
	}
}

func NewNormalizerRegistry(opts NormalizerRegistryOpts) *NormalizerRegistry {
	reg := &NormalizerRegistry{
		m: make(map[reflect.Type]map[string]Normalizer),
	}

	if !opts.ExcludeDefaults {
		for _, normalizer := range builtinNormalizers() {
			reg.Register(normalizer)
		}
	}
	for _, normalizer := range opts.Normalizers {
		reg.Register(normalizer)
	}
	return reg
}

// defaultNormalizerRegistry backs parsers constructed without an
// explicit registry.
var _defaultRegistry = NewNormalizerRegistry(NormalizerRegistryOpts{})

func defaultNormalizerRegistry() *NormalizerRegistry {
	return _defaultRegistry
}

// Register adds a normalizer under its source type and name, replacing
// any previous registration with the same pair.
func (reg *NormalizerRegistry) Register(normalizer Normalizer) {
	typ := normalizer.SourceType()
	name := normalizer.Name()

	if reg.m[typ] == nil {
		reg.m[typ] = make(map[string]Normalizer)
	}
	reg.m[typ][name] = normalizer
}

// WithNormalizer returns a context that will use the named normalizer.
// Useful when multiple normalizers are registered for one source type.
func (reg *NormalizerRegistry) WithNormalizer(name string) *NormalizerRegistryContext {
	return &NormalizerRegistryContext{registry: reg, name: name}
}

// Normalize adapts source through the named normalizer.
func (regCtx *NormalizerRegistryContext) Normalize(source any) (Args, error) {
	normalizer, err := regCtx.registry.getByName(source, regCtx.name)
	if err != nil {
		return nil, err
	}
	args, err := normalizer.Normalize(source)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize with %s: %w", normalizer.Name(), err)
	}
	return args, nil
}

// Normalize adapts source through the normalizer registered for its
// type. It only succeeds when exactly one normalizer is registered for
// that type; otherwise use WithNormalizer().
func (reg *NormalizerRegistry) Normalize(source any) (Args, error) {
	normalizer, err := reg.getDefault(source)
	if err != nil {
		return nil, err
	}
	args, err := normalizer.Normalize(source)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize with %s: %w", normalizer.Name(), err)
	}
	return args, nil
}

func (reg *NormalizerRegistry) getDefault(source any) (Normalizer, error) {
	return reg.getByName(source, "")
}

// getByName retrieves a specific normalizer by name for the source's
// type.
//
// No name provided: if there is only one normalizer registered for the
// type it is returned; with multiple, an error.
func (reg *NormalizerRegistry) getByName(source any, name string) (Normalizer, error) {
	t := reflect.TypeOf(source)

	if forType, exists := reg.m[t]; exists {
		if name == "" {
			switch len(forType) {
			case 0:
				return nil, ErrNoNormalizerRegistered
			case 1:
				for _, normalizer := range forType {
					return normalizer, nil
				}
			default:
				return nil, ErrMultipleNormalizersAvailable
			}
		}
		if normalizer, found := forType[name]; found {
			return normalizer, nil
		}
	}

	if name == "" {
		return nil, ErrNoNormalizer
	}
	return nil, ErrNormalizerNotFound
}
