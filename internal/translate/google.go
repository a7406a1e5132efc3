package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleTranslateURL = "https://translate.googleapis.com/translate_a/single"

// GoogleProvider uses the public (free) Google Translate endpoint.
type GoogleProvider struct {
	client *http.Client
}

func NewGoogleProvider() *GoogleProvider {
	return &GoogleProvider{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *GoogleProvider) Name() string { return "google" }

func (g *GoogleProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	// Limit text length for the API
	if len(text) > 4000 {
		text = text[:4000]
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto") // source language: detect
	params.Set("tl", targetLang)
	params.Set("dt", "t") // return translations
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleTranslateURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("google Translate API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse unpacks the nested-array response format.
func parseGoogleResponse(body []byte) (string, error) {
	var response []interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response) == 0 {
		return "", errors.New("empty response from Google Translate")
	}

	// First element contains the translation segments
	segments, ok := response[0].([]interface{})
	if !ok {
		return "", errors.New("unexpected response format")
	}

	var result strings.Builder
	for _, segment := range segments {
		if parts, ok := segment.([]interface{}); ok && len(parts) > 0 {
			if translated, ok := parts[0].(string); ok {
				result.WriteString(translated)
			}
		}
	}
	return result.String(), nil
}
