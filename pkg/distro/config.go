// Package distro loads the distribution configuration: the TOML settings
// that drive recipe generation and the YAML provider configs the docs are
// built from.
package distro

import (
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackdistro/pkg/deps"
	"github.com/matzehuels/stackdistro/pkg/errors"
	"github.com/matzehuels/stackdistro/pkg/version"
)

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = "stackdistro.toml"

// EnvBaseVersion overrides Config.BaseVersion when set.
const EnvBaseVersion = "LLAMA_STACK_VERSION"

// DefaultPinned constrains packages the distribution patches so builds are
// repeatable.
var DefaultPinned = []string{
	"'kfp-kubernetes==2.14.6'",
	"'pyarrow>=21.0.0'",
	"'botocore==1.35.88'",
	"'boto3==1.35.88'",
	"'aiobotocore==2.16.1'",
	"'ibm-cos-sdk-core==2.14.2'",
	"'ibm-cos-sdk==2.14.2'",
}

// Config is the distribution configuration.
type Config struct {
	// BaseVersion is the llama-stack version or revision to build against.
	BaseVersion string `toml:"base_version"`
	// SourceRepoOwner owns the llama-stack fork source installs come from.
	SourceRepoOwner string `toml:"source_repo_owner"`
	// SourceMarker in a version forces a source install.
	SourceMarker string `toml:"source_marker"`
	// Installer prefixes every install instruction.
	Installer string `toml:"installer"`
	// Pinned requirements are installed first with --upgrade.
	Pinned []string `toml:"pinned"`

	Paths   Paths             `toml:"paths"`
	Patches []deps.ExtraPatch `toml:"patches"`
	Docs    Docs              `toml:"docs"`
}

// Paths locates the inputs and outputs of both pipelines.
type Paths struct {
	Template       string `toml:"template"`
	Output         string `toml:"output"`
	ResolverConfig string `toml:"resolver_config"`
	RunConfig      string `toml:"run_config"`
	BuildConfig    string `toml:"build_config"`
	Readme         string `toml:"readme"`
}

// Docs configures the generated README.
type Docs struct {
	Title     string `toml:"title"`
	Vendor    string `toml:"vendor"`
	Generator string `toml:"generator"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		BaseVersion:     version.DefaultBase,
		SourceRepoOwner: version.DefaultOwner,
		SourceMarker:    version.DefaultMarker,
		Installer:       deps.DefaultInstaller,
		Pinned:          slices.Clone(DefaultPinned),
		Paths: Paths{
			Template:       "distribution/Containerfile.in",
			Output:         "distribution/Containerfile",
			ResolverConfig: "distribution/config.yaml",
			RunConfig:      "distribution/run.yaml",
			BuildConfig:    "distribution/build.yaml",
			Readme:         "distribution/README.md",
		},
		Patches: slices.Clone(deps.DefaultPatches),
		Docs: Docs{
			Title:     "Open Data Hub Llama Stack Distribution Image",
			Vendor:    "Open Data Hub",
			Generator: "stackdistro docs",
		},
	}
}

// LoadConfig reads the TOML file at path over the defaults and applies the
// LLAMA_STACK_VERSION override. A missing file yields the defaults unless
// required is set. Unknown keys are rejected.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) || required {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		cfg.applyEnv()
		return cfg, nil
	}

	cfg.Pinned, cfg.Patches = nil, nil
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if !md.IsDefined("pinned") {
		cfg.Pinned = slices.Clone(DefaultPinned)
	}
	if !md.IsDefined("patches") {
		cfg.Patches = slices.Clone(deps.DefaultPatches)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvBaseVersion); ok && strings.TrimSpace(v) != "" {
		c.BaseVersion = strings.TrimSpace(v)
	}
}

// Validate checks the configuration before any command runs.
func (c Config) Validate() error {
	if c.BaseVersion == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "base_version is required")
	}
	if err := errors.ValidateRevision(c.BaseVersion); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "base_version")
	}
	if !c.InstallFromSource() {
		if _, err := version.Parse(c.BaseVersion); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "base_version")
		}
	}
	if c.SourceRepoOwner == "" || strings.Contains(c.SourceRepoOwner, "/") {
		return errors.New(errors.ErrCodeInvalidConfig, "source_repo_owner %q must be a single path segment", c.SourceRepoOwner)
	}
	if err := errors.ValidateRevision(c.SourceRepoOwner); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "source_repo_owner")
	}
	if strings.TrimSpace(c.Installer) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "installer must not be empty")
	}
	for i, p := range c.Pinned {
		if err := errors.ValidatePinnedSpec(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "pinned[%d]", i)
		}
	}
	for i, p := range c.Patches {
		if err := errors.ValidatePythonPackageName(p.Package); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "patches[%d].package", i)
		}
		if err := errors.ValidateExtraName(p.Extra); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "patches[%d].extra", i)
		}
	}
	required := []struct{ key, value string }{
		{"paths.template", c.Paths.Template},
		{"paths.output", c.Paths.Output},
		{"paths.resolver_config", c.Paths.ResolverConfig},
		{"paths.run_config", c.Paths.RunConfig},
		{"paths.build_config", c.Paths.BuildConfig},
		{"paths.readme", c.Paths.Readme},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be empty", r.key)
		}
	}
	return nil
}

// InstallFromSource reports whether the base version is installed from the
// source repository.
func (c Config) InstallFromSource() bool {
	return version.IsInstallFromSource(c.BaseVersion, c.SourceMarker)
}

// SourceInstall returns the source install instruction for the recipe, or ""
// for a released base version.
func (c Config) SourceInstall() string {
	if !c.InstallFromSource() {
		return ""
	}
	return version.SourceInstallInstruction(c.SourceRepoOwner, c.BaseVersion)
}

// AssembleOptions returns the assembly options for the recipe body.
func (c Config) AssembleOptions() deps.Options {
	return deps.Options{Installer: c.Installer, Pinned: c.Pinned}
}

// Normalizer returns a normalizer with the configured extra patches. Nil
// patches select the defaults; an empty list disables patching.
func (c Config) Normalizer() *deps.Normalizer {
	return deps.NewNormalizer(c.Patches)
}
