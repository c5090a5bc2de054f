package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"pairup_server/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// DefaultGenerationModel is the Claude model used for assignment generation
	DefaultGenerationModel = "claude-sonnet-4-5-20250929"

	generationMaxTokens = 4096
	generationAttempts  = 3
	generationBaseDelay = 1 * time.Second
	generationTimeout   = 45 * time.Second
)

const generationSystemPrompt = "You write concise, practical project assignments for pairs of developers. " +
	"You always answer with valid JSON matching the requested fields, with no surrounding prose or markdown."

// AnthropicMessagesClient is the narrow slice of the Anthropic SDK the
// generation service depends on, so tests can substitute a mock.
type AnthropicMessagesClient interface {
	New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// RealAnthropicClient adapts the SDK client to AnthropicMessagesClient
type RealAnthropicClient struct {
	messages *anthropic.MessageService
}

func NewRealAnthropicClient(client *anthropic.Client) *RealAnthropicClient {
	return &RealAnthropicClient{messages: &client.Messages}
}

func (r *RealAnthropicClient) New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return r.messages.New(ctx, params)
}

// GenerationService calls the text-generation API with retry on rate limits
// and degrades to a deterministic template when the service is unavailable.
// GenerateAssignment never fails the caller.
type GenerationService struct {
	Client    AnthropicMessagesClient
	Model     string
	BaseDelay time.Duration
}

// NewGenerationService builds a GenerationService backed by the real API
func NewGenerationService(apiKey, model string) *GenerationService {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)

	if model == "" {
		model = DefaultGenerationModel
	}

	return &GenerationService{
		Client:    NewRealAnthropicClient(&client),
		Model:     model,
		BaseDelay: generationBaseDelay,
	}
}

// GenerateAssignment produces the assignment title and description for a
// composed prompt. On exhausted retries or any non-retryable failure it
// returns the fallback assignment built from the topic.
func (g *GenerationService) GenerateAssignment(ctx context.Context, prompt, topic string) (string, string) {
	reply, err := g.generateReply(ctx, prompt)
	if err != nil {
		log.Printf("⚠️ Assignment generation degraded to fallback: %v", err)
		return FallbackAssignment(topic)
	}
	return reply.Title, RenderDescription(reply)
}

// GenerateReview produces a plain-text review for a composed prompt, with
// the same retry contract as assignments. Callers absorb the error.
func (g *GenerationService) GenerateReview(ctx context.Context, prompt string) (string, error) {
	var text string
	err := RetryWithBackoff(ctx, RetryPolicy{
		MaxAttempts: generationAttempts,
		BaseDelay:   g.baseDelay(),
		Multiplier:  2.0,
		Retryable:   isRateLimited,
	}, func() error {
		reply, err := g.callModel(ctx, prompt)
		if err != nil {
			return err
		}
		text = reply
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (g *GenerationService) generateReply(ctx context.Context, prompt string) (*models.GenerationReply, error) {
	var raw string
	err := RetryWithBackoff(ctx, RetryPolicy{
		MaxAttempts: generationAttempts,
		BaseDelay:   g.baseDelay(),
		Multiplier:  2.0,
		Retryable:   isRateLimited,
	}, func() error {
		text, err := g.callModel(ctx, prompt)
		if err != nil {
			return err
		}
		raw = text
		return nil
	})
	if err != nil {
		return nil, err
	}

	return parseGenerationReply(raw)
}

// callModel performs one bounded API call and returns the reply text
func (g *GenerationService) callModel(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	message, err := g.Client.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.Model),
		MaxTokens: generationMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: generationSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}

	var content string
	for _, block := range message.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return "", errors.New("generation reply contained no text")
	}
	return content, nil
}

func (g *GenerationService) baseDelay() time.Duration {
	if g.BaseDelay > 0 {
		return g.BaseDelay
	}
	return generationBaseDelay
}

// isRateLimited is the only condition worth retrying; everything else is a
// hard failure handled by the fallback.
func isRateLimited(err error) bool {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// parseGenerationReply decodes the model's JSON document, tolerating fenced
// or prefixed output by trimming to the outermost braces.
func parseGenerationReply(raw string) (*models.GenerationReply, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, errors.New("generation reply is not a JSON object")
	}

	var reply models.GenerationReply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err != nil {
		return nil, fmt.Errorf("failed to decode generation reply: %w", err)
	}
	if reply.Title == "" || reply.Description == "" {
		return nil, errors.New("generation reply is missing title or description")
	}
	return &reply, nil
}

// RenderDescription flattens the structured reply into the stored
// description: narrative, API contract, frontend tasks, backend tasks.
func RenderDescription(reply *models.GenerationReply) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(reply.Description))

	if len(reply.APIEndpoints) > 0 {
		b.WriteString("\n\nAPI Contract:\n")
		for _, ep := range reply.APIEndpoints {
			b.WriteString(fmt.Sprintf("- %s %s: %s\n", ep.Method, ep.Path, ep.Description))
		}
	}

	if len(reply.FrontendTasks) > 0 {
		b.WriteString("\nFrontend Tasks:\n")
		for _, task := range reply.FrontendTasks {
			b.WriteString("- " + task + "\n")
		}
	}

	if len(reply.BackendTasks) > 0 {
		b.WriteString("\nBackend Tasks:\n")
		for _, task := range reply.BackendTasks {
			b.WriteString("- " + task + "\n")
		}
	}

	return b.String()
}

// FallbackAssignment is the deterministic assignment used when generation is
// unavailable. Built only from the optional topic, so pairing always succeeds.
func FallbackAssignment(topic string) (string, string) {
	subject := strings.TrimSpace(topic)
	if subject == "" {
		subject = "a small web product"
	}

	title := "Rapid Response Build: " + subject

	reply := &models.GenerationReply{
		Description: "Your team has 48 hours to ship a working first version of " + subject + ". " +
			"The backend exposes a small REST API, the frontend consumes it, and both sides agree " +
			"on the contract below before writing any code.",
		FrontendTasks: []string{
			"Set up the project and a basic page layout",
			"Build a list view backed by the API",
			"Build a detail view with create and edit forms",
			"Handle loading and error states for every request",
		},
		BackendTasks: []string{
			"Set up the service skeleton and storage layer",
			"Implement the list and detail endpoints",
			"Implement create and update with input validation",
			"Return consistent error responses with proper status codes",
		},
		APIEndpoints: []models.APIEndpoint{
			{Method: "GET", Path: "/api/items", Description: "List all items"},
			{Method: "GET", Path: "/api/items/{id}", Description: "Fetch one item"},
			{Method: "POST", Path: "/api/items", Description: "Create an item"},
			{Method: "PUT", Path: "/api/items/{id}", Description: "Update an item"},
		},
	}

	return title, RenderDescription(reply)
}
