package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load reads and validates the configuration from the directory. A path to
// the config.yaml itself is also accepted.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	if filepath.Base(path) != ConfigurationName {
		path = filepath.Join(path, ConfigurationName)
	}

	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	var out Configuration
	if err := yaml.UnmarshalStrict(contents, &out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &out, nil
}

// Initialize writes the commented default config into the directory. It
// refuses to clobber an existing file.
func Initialize(fs afero.Fs, dir string) (string, error) {
	path := filepath.Join(dir, ConfigurationName)
	if _, err := fs.Stat(path); err == nil {
		return path, fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return path, err
	}

	if err := afero.WriteFile(fs, path, defaultConfigData, 0o644); err != nil {
		return path, err
	}
	return path, nil
}
