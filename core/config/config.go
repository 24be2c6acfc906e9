// Package config holds the agsh configuration file format.
package config

import (
	_ "embed"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// ConfigurationName is the file name searched for in the config directory.
const ConfigurationName = "config.yaml"

// Configuration is the on-disk configuration. Exactly one of ServerURL or
// Local.Root selects the filesystem backend; ServerURL wins when both are
// set.
type Configuration struct {
	ServerURL string `json:"server_url" validate:"omitempty,url"`
	Local     Local  `json:"local"`

	Prompt   string `json:"prompt"`
	HistFile string `json:"histfile"`

	ThrottleBytesPerSec int64 `json:"throttle_bytes_per_sec" validate:"gte=0"`

	Env     map[string]string `json:"env"`
	Aliases map[string]string `json:"aliases"`
}

// Local configures the directory-backed filesystem mode.
type Local struct {
	Root string `json:"root"`
}

// Validate checks the configuration for semantic errors.
func (c *Configuration) Validate() error {
	if c.ServerURL == "" && c.Local.Root == "" {
		return errors.New("one of server_url or local.root must be set")
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Remote reports whether the shell should talk to an AGFS server.
func (c *Configuration) Remote() bool {
	return c.ServerURL != ""
}

// defaultConfig parses the embedded default. It panics on failure because
// the default ships with the binary and must always parse.
func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
