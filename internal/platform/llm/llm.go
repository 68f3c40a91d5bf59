// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package llm is the client of the language model used by the translation pipeline.

It speaks the OpenAI-compatible chat-completions protocol, so any provider that
exposes that endpoint (OpenAI, OpenRouter, a local gateway) can be configured
with LLM_BASE_URL.

Calls are never retried here. A failed call is reported to the caller, which
decides whether the failure is terminal.
*/
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/taibuivan/pipemill/internal/i18n"
)

var (
	// ErrMalformedMetadata is returned when the model's metadata answer is not a
	// JSON object with exactly the name, description and category string keys.
	ErrMalformedMetadata = errors.New("llm: malformed metadata response")

	// ErrEmptyResponse is returned when the model answers without any content.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Metadata is the short descriptive text of a brochure.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// metadataKeys are the exact keys of a well-formed metadata answer.
var metadataKeys = []string{"name", "description", "category"}

// # Client

// Client calls a chat-completions endpoint.
type Client struct {
	http  *resty.Client
	model string
}

/*
NewClient constructs a [Client].

Parameters:
  - baseURL: string (e.g. "https://api.openai.com/v1")
  - apiKey: string (sent as a bearer token; may be empty for local gateways)
  - model: string
  - timeout: time.Duration (per call)
*/
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		httpClient.SetAuthToken(apiKey)
	}
	return &Client{http: httpClient, model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// # Operations

// TranslateText translates the full text of a document from source to target.
func (client *Client) TranslateText(ctx context.Context, text string, source, target i18n.Lang) (string, error) {
	system := fmt.Sprintf(
		"You are a professional technical translator for a plastic pipe manufacturer. "+
			"Translate the user's text from %s to %s. Keep product codes, units and numbers unchanged. "+
			"Preserve paragraph breaks. Answer with the translation only.",
		languageName(source), languageName(target),
	)

	content, err := client.complete(ctx, chatRequest{
		Model: client.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: text},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

/*
TranslateMetadata translates a brochure's name, description and category.

The model is asked for a JSON object and its answer is parsed strictly.

Returns:
  - Metadata: the translated values
  - error: [ErrMalformedMetadata] when the answer has any other shape, or the call failure
*/
func (client *Client) TranslateMetadata(ctx context.Context, metadata Metadata, source, target i18n.Lang) (Metadata, error) {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return Metadata{}, err
	}

	system := fmt.Sprintf(
		"Translate the values of the JSON object from %s to %s. "+
			`Answer with a JSON object with exactly the keys "name", "description" and "category", all strings.`,
		languageName(source), languageName(target),
	)

	content, err := client.complete(ctx, chatRequest{
		Model: client.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: string(payload)},
		},
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return Metadata{}, err
	}
	return ParseMetadata(content)
}

// ParseMetadata decodes a metadata answer, rejecting missing, extra or non-string keys.
func ParseMetadata(content string) (Metadata, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}
	if len(raw) != len(metadataKeys) {
		return Metadata{}, fmt.Errorf("%w: expected %d keys, got %d", ErrMalformedMetadata, len(metadataKeys), len(raw))
	}

	values := make(map[string]string, len(metadataKeys))
	for _, key := range metadataKeys {
		value, ok := raw[key]
		if !ok {
			return Metadata{}, fmt.Errorf("%w: missing %q", ErrMalformedMetadata, key)
		}
		var s string
		if len(value) == 0 || value[0] != '"' || json.Unmarshal(value, &s) != nil {
			return Metadata{}, fmt.Errorf("%w: %q is not a string", ErrMalformedMetadata, key)
		}
		values[key] = s
	}

	return Metadata{Name: values["name"], Description: values["description"], Category: values["category"]}, nil
}

func (client *Client) complete(ctx context.Context, body chatRequest) (string, error) {
	var result chatResponse
	response, err := client.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("llm: %s: %s", response.Status(), abbreviate(response.String(), 500))
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return result.Choices[0].Message.Content, nil
}

func languageName(code i18n.Lang) string {
	if language, ok := i18n.Lookup(code); ok {
		return language.Name
	}
	return string(code)
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
