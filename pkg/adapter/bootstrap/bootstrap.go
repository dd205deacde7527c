// Package bootstrap is an adapter which allows instance_create's caller
// to write a yaml configuration file enumerating the plugin sections an
// instance should register, sidestepping the circularity of validating
// that very first config against a mold (see SPEC_FULL.md §6.a).
//
// The parsed and validated settings are promoted into calls against
// pkg/core/instance and pkg/core/plugin by the caller; this package
// only owns decode and struct-tag validation.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the instance bootstrap file's top-level shape: a list of
// plugin sections, each naming the shared object to load and the
// identifiers register_plugin records are keyed by.
type Config struct {
	Plugins []Plugin `yaml:"plugins" validate:"required,min=1,dive"`
}

// Plugin is one {plugin_filepath, io_id, group_id, config_base_id,
// mold_base_id} bootstrap record, per spec.md §6's instance_create.
type Plugin struct {
	// Filepath locates the plugin's registration function. disir-go
	// has no dlopen equivalent (an explicit Non-goal); callers resolve
	// Filepath to a plugin.RegisterFunc through their own registry
	// rather than this package loading a shared object.
	Filepath string `yaml:"plugin_filepath" validate:"required"`
	// IOID names the plugin instance for logging and error messages.
	IOID string `yaml:"io_id" validate:"required"`
	// GroupID is the key plugin.Registry dispatches config/mold
	// operations by.
	GroupID string `yaml:"group_id" validate:"required"`
	// ConfigBaseID and MoldBaseID are the base entry identifiers the
	// plugin's config_entries/mold_entries enumerate beneath.
	ConfigBaseID string `yaml:"config_base_id" validate:"required"`
	MoldBaseID   string `yaml:"mold_base_id" validate:"required"`
}

var instanceValidator = validator.New()

// Load reads, unmarshals, and validates the bootstrap file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bootstrap config: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling bootstrap config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating bootstrap config: %w", err)
	}
	return c, nil
}

// Validate checks every plugin section's required fields are present.
func (c *Config) Validate() error {
	return instanceValidator.Struct(c)
}
