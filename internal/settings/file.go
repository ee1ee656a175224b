package settings

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type fileConfig struct {
	Debug             *bool    `yaml:"debug"`
	Region            string   `yaml:"region"`
	DestinationBucket string   `yaml:"destination"`
	Scheme            string   `yaml:"scheme"`
	Timeout           string   `yaml:"timeout"`
	VerifyDestination *bool    `yaml:"verify-destination"`
	Runner            string   `yaml:"runner"`
	Converter         string   `yaml:"converter"`
	Image             string   `yaml:"image"`
	Network           string   `yaml:"network"`
	PassEnv           []string `yaml:"pass-env"`
	FunctionName      string   `yaml:"function"`
	LambdaEndpoint    string   `yaml:"lambda-endpoint"`
	Port              int      `yaml:"port"`
}

type FileError struct {
	path string
	base error
}

func (e FileError) Error() string {
	return fmt.Sprintf("Unable to load settings from %s: %v", e.path, e.base)
}

func (e FileError) Unwrap() error {
	return e.base
}

// applyFile copies values from the YAML file at path into config, skipping
// anything named in explicit.
func (config *Config) applyFile(path string, explicit map[string]bool) error {
	logger.Debugf("Loading settings from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return FileError{path: path, base: err}
	}

	var file fileConfig
	err = yaml.UnmarshalStrict(data, &file)
	if err != nil {
		return FileError{path: path, base: err}
	}

	setString := func(flag string, target *string, value string) {
		if value != "" && !explicit[flag] {
			*target = value
		}
	}

	setString("region", &config.Region, file.Region)
	setString("destination", &config.DestinationBucket, file.DestinationBucket)
	setString("scheme", &config.Scheme, file.Scheme)
	setString("runner", &config.Runner, file.Runner)
	setString("converter", &config.Converter, file.Converter)
	setString("image", &config.Image, file.Image)
	setString("network", &config.Network, file.Network)
	setString("function", &config.FunctionName, file.FunctionName)
	setString("lambda-endpoint", &config.LambdaEndpoint, file.LambdaEndpoint)

	if file.Debug != nil && !explicit["debug"] {
		config.IsDebug = *file.Debug
	}

	if file.VerifyDestination != nil && !explicit["verify-destination"] {
		config.VerifyDestination = *file.VerifyDestination
	}

	if len(file.PassEnv) > 0 && !explicit["pass-env"] {
		config.PassEnv = file.PassEnv
	}

	if file.Port != 0 && !explicit["port"] {
		config.BasePort = file.Port
	}

	if file.Timeout != "" && !explicit["timeout"] {
		timeout, err := time.ParseDuration(file.Timeout)
		if err != nil {
			return FileError{path: path, base: err}
		}
		config.Timeout = timeout
	}

	return nil
}
