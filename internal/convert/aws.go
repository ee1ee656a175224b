package convert

import (
	"context"

	"github.com/ATenderholt/rainbow-xform/internal/settings"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// Local lambda emulators accept any key pair.
var localCredentials aws.CredentialsProviderFunc = func(ctx context.Context) (aws.Credentials, error) {
	return aws.Credentials{AccessKeyID: "ABC", SecretAccessKey: "EFG", CanExpire: false}, nil
}

func lambdaEndpointResolver(cfg *settings.Config) aws.EndpointResolverWithOptionsFunc {
	return func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               cfg.LambdaEndpoint,
			HostnameImmutable: true,
		}, nil
	}
}

// NewLambdaClient talks to cfg.LambdaEndpoint when set, otherwise to AWS
// using the default credential chain.
func NewLambdaClient(ctx context.Context, cfg *settings.Config) (*lambda.Client, error) {
	if cfg.LambdaEndpoint != "" {
		logger.Infof("Using lambda endpoint %s", cfg.LambdaEndpoint)
		config := aws.Config{
			Region:                      cfg.Region,
			Credentials:                 localCredentials,
			EndpointResolverWithOptions: lambdaEndpointResolver(cfg),
		}

		return lambda.NewFromConfig(config), nil
	}

	config, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Errorf("Unable to load AWS configuration: %v", err)
		return nil, err
	}

	return lambda.NewFromConfig(config), nil
}
