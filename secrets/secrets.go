// Package secrets exports secrets kept in AWS SSM Parameter Store into the
// environment.
package secrets

import (
	"context"
	"errors"
	"os"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// API is the subset of the SSM client used to read parameters.
type API interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Load reads the parameters prefix+name for every name not already set in
// the environment. It does nothing when no AWS credentials are available.
func Load(ctx context.Context, region, prefix string, names ...string) {
	if len(missing(names)) == 0 {
		return
	}
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.WithError(err).Debug("no AWS config, skipping SSM secrets")
		return
	}
	if cfg.Credentials == nil {
		return
	}
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		log.WithError(err).Debug("no AWS credentials, skipping SSM secrets")
		return
	}
	Export(ctx, ssm.NewFromConfig(cfg), prefix, names...)
}

func missing(names []string) []string {
	var m []string
	for _, name := range names {
		if os.Getenv(name) == "" {
			m = append(m, name)
		}
	}
	return m
}

// Export sets each missing variable from its decrypted parameter. Missing
// parameters are ignored, other failures are logged.
func Export(ctx context.Context, api API, prefix string, names ...string) {
	for _, name := range missing(names) {
		out, err := api.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(prefix + name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			var nf *types.ParameterNotFound
			if !errors.As(err, &nf) {
				log.WithError(err).WithField("parameter", prefix+name).Warn("cannot read SSM parameter")
			}
			continue
		}
		if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
			continue
		}
		if err := os.Setenv(name, aws.ToString(out.Parameter.Value)); err != nil {
			log.WithError(err).WithField("name", name).Warn("cannot export secret")
			continue
		}
		log.WithField("name", name).Info("loaded secret from SSM")
	}
}
