// Package prompt_fx wires the generative clients and the moodboard generator.
package prompt_fx

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wedplan/internal/api/controllers"
	"wedplan/internal/config"
	"wedplan/internal/reveal"
	"wedplan/internal/services"
	"wedplan/pkg/utils"
)

var Module = fx.Provide(
	provideGeminiClient,
	provideOpenAIClient,
	provideTextGenerator,
	provideImageGenerator,
	provideEmbeddingClient,
	provideRevealTimings,
	services.NewMoodboardService,
	controllers.NewMoodboardController)

// provideGeminiClient returns nil when no provider is configured to use Gemini.
func provideGeminiClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*utils.GeminiClient, error) {
	if !usesProvider(cfg, "gemini") {
		return nil, nil
	}
	if cfg.AI.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when using the gemini provider")
	}

	client, err := utils.NewGeminiClient(context.Background(), cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error { return client.Close() },
	})

	log.Info("gemini client initialized", zap.String("model", client.ModelName()))
	return client, nil
}

// provideOpenAIClient always returns a client: images are rendered by OpenAI.
func provideOpenAIClient(cfg *config.Config, log *zap.Logger) *utils.OpenAIClient {
	if cfg.AI.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY is empty; image generation will fail")
	}

	opts := utils.OpenAIOptions{
		TextModel:  cfg.AI.OpenAITextModel,
		ImageModel: cfg.AI.ImageModel,
		ImageSize:  cfg.AI.ImageSize,
	}
	if strings.EqualFold(cfg.AI.EmbeddingProvider, "openai") {
		opts.EmbeddingModel = cfg.AI.EmbeddingModel
	}
	return utils.NewOpenAIClient(cfg.AI.OpenAIAPIKey, opts)
}

func provideTextGenerator(cfg *config.Config, gemini *utils.GeminiClient, openai *utils.OpenAIClient) (utils.TextGeneratorInterface, error) {
	switch strings.ToLower(cfg.AI.TextProvider) {
	case "gemini":
		return gemini, nil
	case "openai":
		return openai, nil
	default:
		return nil, fmt.Errorf("unsupported text provider: %s. Use 'openai' or 'gemini'", cfg.AI.TextProvider)
	}
}

func provideImageGenerator(openai *utils.OpenAIClient) utils.ImageGeneratorInterface {
	return openai.Images()
}

// provideEmbeddingClient returns nil for the "none" provider, which disables
// similarity indexing.
func provideEmbeddingClient(cfg *config.Config, gemini *utils.GeminiClient, openai *utils.OpenAIClient, log *zap.Logger) (utils.EmbeddingClientInterface, error) {
	log.Info("initializing embedding client", zap.String("provider", cfg.AI.EmbeddingProvider), zap.String("model", cfg.AI.EmbeddingModel))

	switch strings.ToLower(cfg.AI.EmbeddingProvider) {
	case "gemini":
		return gemini, nil
	case "openai":
		return openai, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s. Use 'openai', 'gemini' or 'none'", cfg.AI.EmbeddingProvider)
	}
}

func provideRevealTimings(cfg *config.Config) reveal.Timings {
	palette, images, stagger, complete := cfg.Reveal.Timings()
	return reveal.Timings{
		Palette:  palette,
		Images:   images,
		Stagger:  stagger,
		Complete: complete,
	}
}

func usesProvider(cfg *config.Config, name string) bool {
	return strings.EqualFold(cfg.AI.TextProvider, name) || strings.EqualFold(cfg.AI.EmbeddingProvider, name)
}
