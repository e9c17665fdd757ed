package main

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// defaultRegion is used when neither AWS_REGION nor AWS_DEFAULT_REGION is
// set.
const defaultRegion = "us-east-1"

// newS3Client returns an S3 client configured from the standard AWS
// environment variables. AWS_ENDPOINT_URL_S3 selects an S3-compatible
// endpoint with path-style addressing.
func newS3Client() *s3.Client {
	return s3.NewFromConfig(awsConfig(os.LookupEnv), func(o *s3.Options) {
		if ep, ok := os.LookupEnv("AWS_ENDPOINT_URL_S3"); ok && ep != "" {
			o.BaseEndpoint = aws.String(ep)
			o.UsePathStyle = true
		}
	})
}

func awsConfig(lookup func(string) (string, bool)) aws.Config {
	env := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := aws.Config{Region: env("AWS_REGION")}
	if cfg.Region == "" {
		cfg.Region = env("AWS_DEFAULT_REGION")
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}

	if id := env("AWS_ACCESS_KEY_ID"); id != "" {
		creds := aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: env("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    env("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}
		cfg.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return cfg
}
