package config

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	ParamsPrefix  = "/careerhub/prod/"
	defaultRegion = "us-east-2"
)

// LoadEnvironment exports the process environment before Load runs.
// Production reads AWS SSM Parameter Store, everything else reads .env.
func LoadEnvironment(ctx context.Context) {
	if os.Getenv("GO_ENV") != EnvProduction {
		if err := godotenv.Load(); err != nil {
			log.Warnf("no .env file loaded: %v", err)
		}
		return
	}

	region := getEnv("AWS_REGION", defaultRegion)
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	count, err := exportParameters(ctx, ssm.NewFromConfig(cfg), ParamsPrefix)
	if err != nil {
		log.Fatalf("unable to load prod environment, %v", err)
	}
	log.Debugf("loaded %d prod environment variables", count)
}

type parameterLister interface {
	GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, opts ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

func exportParameters(ctx context.Context, client parameterLister, prefix string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	count := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return count, err
		}

		for _, param := range page.Parameters {
			key := strings.TrimPrefix(aws.ToString(param.Name), prefix)
			if err = os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
