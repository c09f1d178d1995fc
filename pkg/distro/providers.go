package distro

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackdistro/pkg/errors"
)

// Provider is one provider entry of a run or build config.
type Provider struct {
	ID     string
	Type   string
	Module string
}

// API groups the providers configured for one API, in document order.
type API struct {
	Name      string
	Providers []Provider
}

// RunConfig is the subset of run.yaml the docs are built from.
type RunConfig struct {
	APIs []API
}

// BuildConfig is the subset of build.yaml the docs are built from.
type BuildConfig struct {
	APIs []API
}

// rawProvider tolerates any scalar or missing value.
type rawProvider struct {
	ProviderID   any `yaml:"provider_id"`
	ProviderType any `yaml:"provider_type"`
	Module       any `yaml:"module"`
}

// LoadRunConfig reads the providers section of a run config.
func LoadRunConfig(path string) (*RunConfig, error) {
	var doc struct {
		Providers yaml.Node `yaml:"providers"`
	}
	if err := decodeYAML(path, &doc); err != nil {
		return nil, err
	}
	apis, err := decodeProviders(&doc.Providers)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: providers", path)
	}
	return &RunConfig{APIs: apis}, nil
}

// LoadBuildConfig reads distribution_spec.providers of a build config.
func LoadBuildConfig(path string) (*BuildConfig, error) {
	var doc struct {
		DistributionSpec struct {
			Providers yaml.Node `yaml:"providers"`
		} `yaml:"distribution_spec"`
	}
	if err := decodeYAML(path, &doc); err != nil {
		return nil, err
	}
	apis, err := decodeProviders(&doc.DistributionSpec.Providers)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: distribution_spec.providers", path)
	}
	return &BuildConfig{APIs: apis}, nil
}

// ExternalProviders maps the provider type of every provider with a module
// to its external status: "Yes (version X)" for a module pinned with ==X,
// "Yes" otherwise.
func (b *BuildConfig) ExternalProviders() map[string]string {
	external := make(map[string]string)
	for _, api := range b.APIs {
		for _, p := range api.Providers {
			if p.Module == "" {
				continue
			}
			if i := strings.LastIndex(p.Module, "=="); i >= 0 {
				external[p.Type] = fmt.Sprintf("Yes (version %s)", p.Module[i+2:])
			} else {
				external[p.Type] = "Yes"
			}
		}
	}
	return external
}

func decodeYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s not found", path)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return nil
}

// decodeProviders walks an API -> provider list mapping. Values that are not
// lists, entries that are not mappings and entries without a string
// provider_type are skipped.
func decodeProviders(node *yaml.Node) ([]API, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nil
	}
	var apis []API
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		api := API{Name: key.Value}
		if value.Kind == yaml.SequenceNode {
			for _, item := range value.Content {
				if item.Kind != yaml.MappingNode {
					continue
				}
				var raw rawProvider
				if err := item.Decode(&raw); err != nil {
					return nil, fmt.Errorf("%s: line %d: %w", api.Name, item.Line, err)
				}
				typ, ok := raw.ProviderType.(string)
				if !ok {
					continue
				}
				api.Providers = append(api.Providers, Provider{
					ID:     scalarString(raw.ProviderID),
					Type:   typ,
					Module: scalarString(raw.Module),
				})
			}
		}
		apis = append(apis, api)
	}
	return apis, nil
}

func scalarString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
