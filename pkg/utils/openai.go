package utils

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

type OpenAIOptions struct {
	TextModel      string
	ImageModel     string
	ImageSize      string
	EmbeddingModel string
}

// OpenAIClient renders moodboard images and can stand in for the Gemini
// text and embedding calls.
type OpenAIClient struct {
	client *openai.Client
	opts   OpenAIOptions
}

func NewOpenAIClient(apiKey string, opts OpenAIOptions) *OpenAIClient {
	if opts.TextModel == "" {
		opts.TextModel = openai.GPT4oMini
	}
	if opts.ImageModel == "" {
		opts.ImageModel = openai.CreateImageModelDallE3
	}
	if opts.ImageSize == "" {
		opts.ImageSize = openai.CreateImageSize1024x1024
	}
	if opts.EmbeddingModel == "" {
		opts.EmbeddingModel = string(openai.SmallEmbedding3)
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		opts:   opts,
	}
}

func (c *OpenAIClient) ModelName() string {
	return c.opts.TextModel
}

// ImageModelName is reported in generation metadata.
func (c *OpenAIClient) ImageModelName() string {
	return c.opts.ImageModel
}

func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.opts.TextModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You answer with a single JSON object."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.opts.ImageModel,
		N:              1,
		Size:           c.opts.ImageSize,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("openai image: empty response")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai image: %w", err)
	}
	return data, nil
}

func (c *OpenAIClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.opts.EmbeddingModel),
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("openai embedding: empty response")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

// Images exposes the client as an image generator reporting the image model.
func (c *OpenAIClient) Images() ImageGeneratorInterface {
	return openAIImages{c}
}

type openAIImages struct {
	c *OpenAIClient
}

func (o openAIImages) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return o.c.GenerateImage(ctx, prompt)
}

func (o openAIImages) ModelName() string {
	return o.c.ImageModelName()
}
