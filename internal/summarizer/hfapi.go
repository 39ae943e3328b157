package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HFClient calls a hosted text2text inference endpoint (Hugging Face
// Inference API or a self-hosted equivalent) to generate length-constrained
// summaries. Beam search with sampling disabled keeps output deterministic
// for identical inputs.
type HFClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHFClient(endpoint, apiKey string) *HFClient {
	return &HFClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Inference API request/response types

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
	NumBeams  int  `json:"num_beams"`
}

type hfOutput struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

func (c *HFClient) Generate(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	reqBody := hfRequest{
		Inputs: text,
		Parameters: hfParameters{
			MaxLength: maxLength,
			MinLength: minLength,
			DoSample:  false,
			NumBeams:  4,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("hf: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("hf: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("hf: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("hf: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("hf: API error: %s", apiErr.Error)
		}
		return "", fmt.Errorf("hf: unexpected status %d", resp.StatusCode)
	}

	var outputs []hfOutput
	if err := json.Unmarshal(respBody, &outputs); err != nil {
		return "", fmt.Errorf("hf: failed to parse response: %w", err)
	}
	if len(outputs) == 0 {
		return "", fmt.Errorf("hf: empty response")
	}

	if outputs[0].SummaryText != "" {
		return outputs[0].SummaryText, nil
	}
	return outputs[0].GeneratedText, nil
}
