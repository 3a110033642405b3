package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ghost-overlay/src/messages"

	"github.com/sashabaranov/go-openai"
)

// Prompt is the fixed instruction sent alongside every screenshot.
const Prompt = "Analyze this screen content concisely. If it's code, debug it. If it's text, summarize it."

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// Timeout bounds the whole HTTP round trip. Zero leaves the transport default.
	Timeout time.Duration
}

// Client submits screenshots to a Gemini model through its OpenAI-compatible
// endpoint. A Client whose construction failed is still usable as a value:
// every call reports NotInitialized without touching the network.
type Client struct {
	model string
	api   *openai.Client
}

// New builds a Client. On error the returned Client is non-nil but unusable.
func New(cfg Config) (*Client, error) {
	c := &Client{model: cfg.Model}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return c, errors.New("API key is required")
	}
	if cfg.Model == "" {
		return c, errors.New("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
			return c, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
		}
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	c.api = openai.NewClientWithConfig(clientConfig)
	return c, nil
}

// Ready reports whether the client was constructed successfully.
func (c *Client) Ready() bool { return c != nil && c.api != nil }

// Model is the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// AnalyzeImage sends one image with the fixed prompt and returns the model's
// text verbatim. Failures are *messages.Error values.
func (c *Client) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	if !c.Ready() {
		return "", messages.NewError(messages.KindNotInitialized, "client not initialized")
	}
	if mimeType == "" {
		mimeType = messages.MimePNG
	}

	imageURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))
	request := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: Prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageURL,
						},
					},
				},
			},
		},
	}

	log.Printf("Vision request: model=%s image_bytes=%d", c.model, len(imageData))
	resp, err := c.api.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", messages.NewError(messages.KindUnknownFailure, "no choices in API response")
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps transport errors onto the overlay's error kinds. Anything the
// service itself answered with is a RemoteAPIFailure.
func classify(err error) *messages.Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return messages.NewError(messages.KindRemoteAPIFailure, "%s", apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return messages.NewError(messages.KindRemoteAPIFailure, "%s", requestErrorMessage(reqErr))
	}
	return messages.NewError(messages.KindUnknownFailure, "%v", err)
}

// requestErrorMessage digs the message out of bodies the SDK could not decode,
// e.g. Gemini's list-wrapped error envelope.
func requestErrorMessage(reqErr *openai.RequestError) string {
	var list []openai.ErrorResponse
	if err := json.Unmarshal(reqErr.Body, &list); err == nil {
		for _, item := range list {
			if item.Error != nil && item.Error.Message != "" {
				return item.Error.Message
			}
		}
	}
	if reqErr.HTTPStatus != "" {
		return reqErr.HTTPStatus
	}
	return reqErr.Error()
}
