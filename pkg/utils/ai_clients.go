package utils

import (
	"context"

	"github.com/pgvector/pgvector-go"
)

// TextGeneratorInterface produces a JSON document from a prompt.
type TextGeneratorInterface interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// ImageGeneratorInterface renders one image and returns its PNG bytes.
type ImageGeneratorInterface interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	ModelName() string
}

type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}
