package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/chatlookup/internal/config"
	"github.com/wolfman30/chatlookup/internal/llm"
	"github.com/wolfman30/chatlookup/pkg/logging"
)

// BuildLLMClient picks the completion provider from config. Gemini is the
// primary provider and Bedrock the fallback; with neither configured every
// call fails and the chat flows answer with their defaults. The returned
// close function is never nil.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (llm.Client, func(), error) {
	noop := func() {}
	if cfg == nil {
		return nil, noop, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		primary  llm.Client
		fallback llm.Client
		closeFn  = noop
	)

	if key := strings.TrimSpace(cfg.GeminiAPIKey); key != "" {
		gemini, err := llm.NewGeminiClient(ctx, key, cfg.GeminiModelID)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap: gemini client: %w", err)
		}
		primary = gemini
		closeFn = func() { _ = gemini.Close() }
		logger.Info("gemini completion provider enabled", "model", cfg.GeminiModelID)
	}

	if model := strings.TrimSpace(cfg.BedrockModelID); model != "" {
		if awsCfg == nil {
			closeFn()
			return nil, noop, fmt.Errorf("bootstrap: bedrock model %q needs aws config", model)
		}
		bedrock, err := llm.NewBedrockClient(bedrockruntime.NewFromConfig(*awsCfg), model)
		if err != nil {
			closeFn()
			return nil, noop, fmt.Errorf("bootstrap: bedrock client: %w", err)
		}
		fallback = bedrock
		logger.Info("bedrock completion provider enabled", "model", model)
	}

	switch {
	case primary != nil && fallback != nil:
		return llm.NewFallbackClient(primary, fallback, logger), closeFn, nil
	case primary != nil:
		return primary, closeFn, nil
	case fallback != nil:
		return fallback, closeFn, nil
	}
	logger.Warn("no completion provider configured; chat replies will use fallbacks")
	return llm.Unavailable{}, closeFn, nil
}
