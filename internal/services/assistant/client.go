// File: internal/services/assistant/client.go
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Client talks to the remote assistant backend over plain JSON/multipart
// HTTP. It implements Service.
type Client struct {
	config *Config
	client *http.Client
	retry  *RetryConfig
}

func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, &Error{Type: ErrTypeConfig, Operation: "config", UserMessage: err.Error()}
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		retry:  &RetryConfig{MaxAttempts: config.MaxRetries, Delay: config.RetryDelay},
	}, nil
}

// Chat sends a message plus conversation context to /chat.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if req.Profile == nil {
		req.Profile = map[string]string{}
	}
	if req.History == nil {
		req.History = []HistoryEntry{}
	}

	var body map[string]any
	err := RetryWithDelay(ctx, c.retry, func(ctx context.Context) error {
		var reqErr error
		body, reqErr = c.postJSON(ctx, "chat", "/chat", req, "The server couldn't process that request.")
		return reqErr
	})
	if err != nil {
		return "", err
	}

	reply, _ := body["reply"].(string)
	if strings.TrimSpace(reply) == "" {
		return "I'm having trouble connecting to my medical database.", nil
	}
	return reply, nil
}

// Predict runs the structured symptom checker via /predict.
func (c *Client) Predict(ctx context.Context, symptoms []string, profile map[string]string) (Prediction, error) {
	if profile == nil {
		profile = map[string]string{}
	}
	payload := map[string]any{
		"symptoms": symptoms,
		"profile":  profile,
	}

	var body map[string]any
	err := RetryWithDelay(ctx, c.retry, func(ctx context.Context) error {
		var reqErr error
		body, reqErr = c.postJSON(ctx, "predict", "/predict", payload, "Unable to run the symptom checker.")
		return reqErr
	})
	if err != nil {
		return Prediction{}, err
	}

	prediction, _ := body["prediction"].(string)
	reasoning, _ := body["reasoning"].(string)
	return Prediction{Prediction: prediction, Reasoning: reasoning}, nil
}

// AnalyzeImage submits the file bytes as multipart form field "file" to
// /analyze-image and returns the analysis text.
func (c *Client) AnalyzeImage(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", NewNetworkError("analyze_image", "Image analysis failed.", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", NewNetworkError("analyze_image", "Image analysis failed.", err)
	}
	if err := writer.Close(); err != nil {
		return "", NewNetworkError("analyze_image", "Image analysis failed.", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/analyze-image", &buf)
	if err != nil {
		return "", NewNetworkError("analyze_image", "Image analysis failed.", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.do("analyze_image", req, "Image analysis failed.")
	if err != nil {
		return "", err
	}

	analysis, _ := body["analysis"].(string)
	return analysis, nil
}

// ChatTitle derives a short label via /chat-title. Never retried: the caller
// has a deterministic local fallback.
func (c *Client) ChatTitle(ctx context.Context, messages []TitleMessage) (string, error) {
	if messages == nil {
		messages = []TitleMessage{}
	}
	payload := map[string]any{"messages": messages}

	body, err := c.postJSON(ctx, "chat_title", "/chat-title", payload, "Title generation failed.")
	if err != nil {
		return "", err
	}

	title, _ := body["title"].(string)
	return title, nil
}

// postJSON encodes payload, posts it and normalizes the response.
func (c *Client) postJSON(ctx context.Context, operation, path string, payload any, fallback string) (map[string]any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Type: ErrTypeValidation, Operation: operation, UserMessage: fallback, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, NewNetworkError(operation, "Network error. Please ensure the backend is running.", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(operation, req, fallback)
}

// do executes the request and collapses every failure mode — transport
// error, non-2xx status, malformed body — into a single *Error path. The
// body is decoded tolerantly: a non-JSON response counts as an empty one.
func (c *Client) do(operation string, req *http.Request, fallback string) (map[string]any, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewNetworkError(operation, "Network error. Please ensure the backend is running.", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := fallback
		if errText, ok := body["error"].(string); ok && strings.TrimSpace(errText) != "" {
			message = errText
		}
		return nil, NewBackendError(operation, resp.StatusCode, message)
	}

	return body, nil
}
