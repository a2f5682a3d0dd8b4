package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Load reads .env (when present), the process environment and, if SSM_PARAMETER_PATH is set,
// the parameters stored under that path. Values already in the environment take precedence.
func Load(ctx context.Context) (map[string]string, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	c := New()

	parameterPath := GetString(c, "SSM_PARAMETER_PATH", "")
	if parameterPath == "" {
		return c, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	params, err := FetchParameters(ctx, ssm.NewFromConfig(awsCfg), parameterPath)
	if err != nil {
		return nil, err
	}
	merged := Overlay(c, params)
	log.Info().Str("path", parameterPath).Int("parameters", len(params)).Msg("loaded configuration from SSM")
	return merged, nil
}

// ParameterLister is the subset of the SSM client used to read configuration.
type ParameterLister interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// FetchParameters reads every parameter under parameterPath, keyed by ParameterKey.
func FetchParameters(ctx context.Context, client ParameterLister, parameterPath string) (map[string]string, error) {
	params := make(map[string]string)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("read ssm parameters under %s: %w", parameterPath, err)
		}
		for _, p := range page.Parameters {
			params[ParameterKey(aws.ToString(p.Name))] = aws.ToString(p.Value)
		}
	}
	return params, nil
}

// ParameterKey turns "/pamer/prod/supabase-jwt-secret" into "SUPABASE_JWT_SECRET".
func ParameterKey(name string) string {
	key := strings.ToUpper(path.Base(name))
	return strings.ReplaceAll(key, "-", "_")
}

// Overlay returns base with every key of extra that base does not already define.
func Overlay(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range extra {
		merged[k] = v
	}
	for k, v := range base {
		if v != "" {
			merged[k] = v
		}
	}
	return merged
}
