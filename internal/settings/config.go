package settings

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultScheme    = "s3"
	DefaultRegion    = "us-east-1"
	DefaultRunner    = RunnerProcess
	DefaultConverter = "./bill_lambda"
	DefaultImage     = "rainbow/bill-lambda:latest"
	DefaultBasePort  = 9070
)

const (
	RunnerProcess = "process"
	RunnerDocker  = "docker"
	RunnerLambda  = "lambda"
)

// Environment variables consulted for defaults, so the Lambda entry point
// and the server share one configuration surface.
const (
	EnvDestinationBucket = "XFORM_DESTINATION_BUCKET"
	EnvRunner            = "XFORM_RUNNER"
	EnvConverter         = "XFORM_CONVERTER"
	EnvImage             = "XFORM_IMAGE"
	EnvFunctionName      = "XFORM_FUNCTION_NAME"
	EnvLambdaEndpoint    = "XFORM_LAMBDA_ENDPOINT"
	EnvTimeout           = "XFORM_TIMEOUT"
	EnvRegion            = "AWS_REGION"
	EnvDebug             = "XFORM_DEBUG"
)

type Config struct {
	IsDebug bool
	Region  string

	DestinationBucket string
	Scheme            string
	Timeout           time.Duration
	VerifyDestination bool

	Runner         string
	Converter      string
	Image          string
	Network        string
	PassEnv        []string
	FunctionName   string
	LambdaEndpoint string

	BasePort int

	configPath string
}

func (config *Config) Address() string {
	return fmt.Sprintf(":%d", config.BasePort)
}

func (config *Config) Validate() error {
	if config.DestinationBucket == "" {
		return fmt.Errorf("destination bucket is required (-destination or %s)", EnvDestinationBucket)
	}

	switch config.Runner {
	case RunnerProcess:
		if config.Converter == "" {
			return fmt.Errorf("runner %s requires a converter path", config.Runner)
		}
	case RunnerDocker:
		if config.Image == "" {
			return fmt.Errorf("runner %s requires an image", config.Runner)
		}
	case RunnerLambda:
		if config.FunctionName == "" {
			return fmt.Errorf("runner %s requires a function name", config.Runner)
		}
	default:
		return fmt.Errorf("unknown runner %q, expected one of %s, %s, %s",
			config.Runner, RunnerProcess, RunnerDocker, RunnerLambda)
	}

	if config.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", config.Timeout)
	}

	return nil
}

func DefaultConfig() *Config {
	return &Config{
		IsDebug:        getEnvBool(EnvDebug, false),
		Region:         getEnv(EnvRegion, DefaultRegion),
		Scheme:         DefaultScheme,
		Timeout:        getEnvDuration(EnvTimeout, 0),
		Runner:         getEnv(EnvRunner, DefaultRunner),
		Converter:      getEnv(EnvConverter, DefaultConverter),
		Image:          getEnv(EnvImage, DefaultImage),
		FunctionName:   getEnv(EnvFunctionName, ""),
		LambdaEndpoint: getEnv(EnvLambdaEndpoint, ""),

		DestinationBucket: getEnv(EnvDestinationBucket, ""),
		BasePort:          DefaultBasePort,
	}
}

// FromEnv builds a validated Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type ListValue struct {
	values []string
}

func (v *ListValue) Set(s string) error {
	v.values = strings.Split(s, ",")
	return nil
}

func (v *ListValue) String() string {
	if len(v.values) > 0 {
		return strings.Join(v.values, ",")
	}

	return ""
}

func FromFlags(name string, args []string) (*Config, string, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)

	var buf bytes.Buffer
	flags.SetOutput(&buf)

	cfg := *DefaultConfig()
	passEnv := ListValue{}
	flags.BoolVar(&cfg.IsDebug, "debug", cfg.IsDebug, "Enable debug logging")
	flags.StringVar(&cfg.Region, "region", cfg.Region, "AWS region used by the lambda runner and bucket verification")
	flags.StringVar(&cfg.DestinationBucket, "destination", cfg.DestinationBucket, "Bucket receiving converted files (required)")
	flags.StringVar(&cfg.Scheme, "scheme", cfg.Scheme, "Scheme used when building source and destination locators")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Maximum duration of a single conversion, 0 waits forever")
	flags.BoolVar(&cfg.VerifyDestination, "verify-destination", false, "Check that the destination bucket exists before starting")
	flags.StringVar(&cfg.Runner, "runner", cfg.Runner, "How conversions are run: process, docker or lambda")
	flags.StringVar(&cfg.Converter, "converter", cfg.Converter, "Path of the conversion executable for the process runner")
	flags.StringVar(&cfg.Image, "image", cfg.Image, "Image used by the docker runner")
	flags.StringVar(&cfg.Network, "network", "", "Network joined by conversion containers")
	flags.Var(&passEnv, "pass-env", "Comma-separated list of environment variables passed to conversion containers")
	flags.StringVar(&cfg.FunctionName, "function", cfg.FunctionName, "Function invoked by the lambda runner")
	flags.StringVar(&cfg.LambdaEndpoint, "lambda-endpoint", cfg.LambdaEndpoint, "Endpoint URL for a local lambda service")
	flags.IntVar(&cfg.BasePort, "port", cfg.BasePort, "Port used for receiving notifications over HTTP")
	flags.StringVar(&cfg.configPath, "config", "", "Optional YAML file with settings, overridden by explicit flags")

	err := flags.Parse(args)
	if err != nil {
		return nil, buf.String(), err
	}

	cfg.PassEnv = passEnv.values

	if cfg.configPath != "" {
		explicit := make(map[string]bool)
		flags.Visit(func(f *flag.Flag) {
			explicit[f.Name] = true
		})

		err = cfg.applyFile(cfg.configPath, explicit)
		if err != nil {
			return nil, buf.String(), err
		}
	}

	err = cfg.Validate()
	if err != nil {
		return nil, buf.String(), err
	}

	return &cfg, buf.String(), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		logger.Warnf("Ignoring %s=%q, expected a boolean", key, v)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		logger.Warnf("Ignoring %s=%q, expected a duration", key, v)
	}
	return fallback
}
