package config

import (
	"fmt"
	"slices"
)

// Environments accepted in base.environment.
var Environments = []string{"development", "staging", "production"}

// BaseConfig names the deployment. Environment also tags telemetry.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
}

func (c *BaseConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = AppName
	}
	if c.Environment == "" {
		c.Environment = Environments[0]
	}
}

func (c *BaseConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("base.name is required")
	}
	if !slices.Contains(Environments, c.Environment) {
		return fmt.Errorf("base.environment must be one of %v (got: %s)", Environments, c.Environment)
	}
	return nil
}
