package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterSource lists parameters below a path. *ssm.Client satisfies it.
type ParameterSource interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSM overlays the parameters stored under SSM_PARAMETER_PATH onto c.
// Without a path it returns c untouched. Environment values win over
// parameters so a deploy can still override a single key.
func LoadSSM(ctx context.Context, c map[string]string) (map[string]string, error) {
	prefix := GetString(c, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return c, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return c, fmt.Errorf("load aws config: %w", err)
	}

	return Overlay(ctx, ssm.NewFromConfig(awsCfg), prefix, c)
}

// Overlay reads every parameter under prefix and merges it into c, keyed by
// the last path element ("/gwf/prod/JWT_SECRET" becomes JWT_SECRET).
func Overlay(ctx context.Context, src ParameterSource, prefix string, c map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(c))
	for k, v := range c {
		merged[k] = v
	}

	loaded := 0
	paginator := ssm.NewGetParametersByPathPaginator(src, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return c, fmt.Errorf("read parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			key := path.Base(strings.TrimSuffix(aws.ToString(p.Name), "/"))
			if key == "" || key == "." || key == "/" {
				continue
			}
			if existing, ok := merged[key]; ok && existing != "" {
				continue
			}
			merged[key] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", prefix).Int("count", loaded).Msg("Loaded parameters from SSM")
	return merged, nil
}
