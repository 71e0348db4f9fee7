package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/gfgprofile/config"
	"github.com/use-agent/gfgprofile/models"
)

func testConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "tiiuae/falcon-7b-instruct",
		Temperature: 0.2,
		MaxTokens:   1024,
		Timeout:     5 * time.Second,
	}
}

// chatServer fakes an OpenAI-compatible completion endpoint that always
// responds with the given message content.
func chatServer(t *testing.T, content string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if capture != nil {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, capture))
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
			"usage": map[string]int{
				"prompt_tokens":     200,
				"completion_tokens": 80,
				"total_tokens":      280,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func someFields() *models.ExtractedFields {
	followers := 12345
	return &models.ExtractedFields{
		DisplayName:    "Jane Geek",
		Followers:      &followers,
		RawTextSnippet: "Jane Geek\nFollowers: 12,345",
	}
}

func TestNormalize_CleanJSON(t *testing.T) {
	const reply = `{"username": "geek_user", "display_name": "Jane Geek"}`

	var captured chatRequest
	srv := chatServer(t, reply, &captured)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	result, err := client.Normalize(context.Background(), "geek_user", someFields())
	require.NoError(t, err)

	assert.JSONEq(t, reply, string(result.Data))
	assert.Equal(t, 200, result.Usage.PromptTokens)
	assert.Equal(t, 80, result.Usage.CompletionTokens)

	// Request carried fixed decoding parameters plus the schema and fields.
	assert.Equal(t, "tiiuae/falcon-7b-instruct", captured.Model)
	assert.InDelta(t, 0.2, captured.Temperature, 1e-9)
	assert.Equal(t, 1024, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Contains(t, captured.Messages[0].Content, `"username": "geek_user"`)
	assert.Contains(t, captured.Messages[0].Content, "top_skills")
	assert.Contains(t, captured.Messages[1].Content, "raw_text_snippet")
	assert.Contains(t, captured.Messages[1].Content, "Jane Geek")
}

func TestNormalize_ProseWrappedJSON(t *testing.T) {
	reply := "Here is the result:\n{\n  \"username\": \"geek_user\",\n  \"followers\": 12345\n}\nThanks!"

	srv := chatServer(t, reply, nil)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	result, err := client.Normalize(context.Background(), "geek_user", someFields())
	require.NoError(t, err)

	assert.JSONEq(t, `{"username": "geek_user", "followers": 12345}`, string(result.Data))
}

func TestNormalize_InvalidJSON(t *testing.T) {
	const reply = "I'm sorry, I can't produce structured output today."

	srv := chatServer(t, reply, nil)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	_, err := client.Normalize(context.Background(), "geek_user", someFields())
	require.Error(t, err)

	var perr *models.PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, models.ErrCodeInvalidJSON, perr.Code)
	// The raw response rides along for debugging.
	assert.Contains(t, perr.Message, reply)
}

func TestNormalize_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{"unauthorized", http.StatusUnauthorized, models.ErrCodeLLMAuthFailure},
		{"forbidden", http.StatusForbidden, models.ErrCodeLLMAuthFailure},
		{"rate limited", http.StatusTooManyRequests, models.ErrCodeLLMRateLimited},
		{"server error", http.StatusInternalServerError, models.ErrCodeLLMFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"message": "nope"}}`))
			}))
			defer srv.Close()

			client := NewClient(testConfig(srv.URL), nil)
			_, err := client.Normalize(context.Background(), "geek_user", someFields())
			require.Error(t, err)

			var perr *models.PipelineError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantCode, perr.Code)
			assert.Contains(t, perr.Message, "nope")
		})
	}
}

func TestRecoverJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"direct object", `{"a": 1}`, `{"a": 1}`, true},
		{"leading whitespace", "\n  {\"a\": 1}\n", `{"a": 1}`, true},
		{"prose wrapped", `Sure! {"a": 1} Hope that helps.`, `{"a": 1}`, true},
		{"multi-line object", "prefix\n{\n\"a\": {\n\"b\": 2\n}\n}\nsuffix", "{\n\"a\": {\n\"b\": 2\n}\n}", true},
		{"markdown fences", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"no braces", "no json here", "", false},
		{"unbalanced span", "{ this is not json }", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := recoverJSON(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, string(got))
			}
		})
	}
}
