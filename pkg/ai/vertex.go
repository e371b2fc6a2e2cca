package ai

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// VertexClient talks to Gemini models hosted on Vertex AI using application
// default credentials.
type VertexClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("ai: google cloud project is empty")
	}
	if location == "" {
		location = "us-central1"
	}
	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(4096)

	return &VertexClient{client: client, model: model, modelName: modelName}, nil
}

func (v *VertexClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("vertex: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("vertex: no response candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (v *VertexClient) Model() string { return v.modelName }
func (v *VertexClient) Enabled() bool { return true }
func (v *VertexClient) Close() error  { return v.client.Close() }
