// File: internal/services/assistant/client_test.go
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(&Config{
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)
	return client
}

func jsonResponse(t *testing.T, w http.ResponseWriter, status int, body map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestNewClientValidatesConfig(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: "  ", Timeout: time.Second, MaxRetries: 1})
	require.Error(t, err)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, ErrTypeConfig, ae.Type)
}

func TestChat(t *testing.T) {
	t.Run("returns the backend reply", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat", r.URL.Path)
			assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "hello", payload["message"])
			assert.Contains(t, payload, "history")
			assert.Contains(t, payload, "profile")
			assert.Equal(t, false, payload["conversation_started"])

			jsonResponse(t, w, http.StatusOK, map[string]any{"reply": "Hi there!"})
		}))
		defer srv.Close()

		reply, err := newTestClient(t, srv.URL).Chat(context.Background(), ChatRequest{Message: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "Hi there!", reply)
	})

	t.Run("blank reply falls back to the canned message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(t, w, http.StatusOK, map[string]any{"reply": "   "})
		}))
		defer srv.Close()

		reply, err := newTestClient(t, srv.URL).Chat(context.Background(), ChatRequest{Message: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "I'm having trouble connecting to my medical database.", reply)
	})

	t.Run("backend error message is surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(t, w, http.StatusInternalServerError, map[string]any{"error": "Model overloaded"})
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).Chat(context.Background(), ChatRequest{Message: "hello"})
		var ae *Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, ErrTypeBackend, ae.Type)
		assert.Equal(t, http.StatusInternalServerError, ae.Code)
		assert.Equal(t, "Model overloaded", ae.UserMessage)
	})

	t.Run("non-JSON error body gets the endpoint fallback", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "<html>gateway error</html>")
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).Chat(context.Background(), ChatRequest{Message: "hello"})
		var ae *Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "The server couldn't process that request.", ae.UserMessage)
	})

	t.Run("unreachable backend is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := newTestClient(t, srv.URL).Chat(context.Background(), ChatRequest{Message: "hello"})
		var ae *Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, ErrTypeNetwork, ae.Type)
		assert.Equal(t, "Network error. Please ensure the backend is running.", ae.UserMessage)
	})

	t.Run("backend errors are not retried", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			jsonResponse(t, w, http.StatusInternalServerError, map[string]any{"error": "nope"})
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).Chat(context.Background(), ChatRequest{Message: "hello"})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)

		var payload struct {
			Symptoms []string          `json:"symptoms"`
			Profile  map[string]string `json:"profile"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []string{"fever", "cough"}, payload.Symptoms)
		assert.Equal(t, "34", payload.Profile["age"])

		jsonResponse(t, w, http.StatusOK, map[string]any{
			"prediction": "Flu",
			"reasoning":  "Classic presentation",
		})
	}))
	defer srv.Close()

	result, err := newTestClient(t, srv.URL).Predict(context.Background(),
		[]string{"fever", "cough"}, map[string]string{"age": "34"})
	require.NoError(t, err)
	assert.Equal(t, "Flu", result.Prediction)
	assert.Equal(t, "Classic presentation", result.Reasoning)
}

func TestAnalyzeImage(t *testing.T) {
	t.Run("submits the file as multipart form data", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/analyze-image", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()

			assert.Equal(t, "xray.png", header.Filename)
			data, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, []byte("image bytes"), data)

			jsonResponse(t, w, http.StatusOK, map[string]any{"analysis": "No fracture visible"})
		}))
		defer srv.Close()

		analysis, err := newTestClient(t, srv.URL).AnalyzeImage(context.Background(), "xray.png", []byte("image bytes"))
		require.NoError(t, err)
		assert.Equal(t, "No fracture visible", analysis)
	})

	t.Run("rejection message is surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(t, w, http.StatusUnprocessableEntity, map[string]any{"error": "Unsupported format."})
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).AnalyzeImage(context.Background(), "notes.txt", []byte("text"))
		var ae *Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, ErrTypeBackend, ae.Type)
		assert.Equal(t, "Unsupported format.", ae.UserMessage)
	})
}

func TestChatTitle(t *testing.T) {
	t.Run("returns the raw title", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat-title", r.URL.Path)

			var payload struct {
				Messages []TitleMessage `json:"messages"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Len(t, payload.Messages, 1)
			assert.Equal(t, "user", payload.Messages[0].Sender)

			jsonResponse(t, w, http.StatusOK, map[string]any{"title": `"Flu Consultation."`})
		}))
		defer srv.Close()

		title, err := newTestClient(t, srv.URL).ChatTitle(context.Background(),
			[]TitleMessage{{Sender: "user", Text: "I have a fever"}})
		require.NoError(t, err)
		assert.Equal(t, `"Flu Consultation."`, title, "cleaning is the caller's concern")
	})

	t.Run("failures are returned without retry", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).ChatTitle(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestRetryWithDelay(t *testing.T) {
	config := &RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}

	t.Run("network errors are retried", func(t *testing.T) {
		var attempts int
		err := RetryWithDelay(context.Background(), config, func(context.Context) error {
			attempts++
			if attempts < 3 {
				return NewNetworkError("op", "down", errors.New("refused"))
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("backend errors stop immediately", func(t *testing.T) {
		var attempts int
		err := RetryWithDelay(context.Background(), config, func(context.Context) error {
			attempts++
			return NewBackendError("op", 500, "broken")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("exhausted retries return the last error", func(t *testing.T) {
		var attempts int
		err := RetryWithDelay(context.Background(), config, func(context.Context) error {
			attempts++
			return NewNetworkError("op", "down", errors.New("refused"))
		})
		var ae *Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, ErrTypeNetwork, ae.Type)
		assert.Equal(t, 3, attempts)
	})
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "corrupt file", UserMessage(NewBackendError("op", 500, "corrupt file")))
	assert.Equal(t, "Network error. Please ensure the backend is running.",
		UserMessage(errors.New("plain error")))
}
