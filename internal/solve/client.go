package solve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to the external solving service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the service rooted at baseURL. A nil
// httpClient uses a client without a timeout; the transport defaults
// apply.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// URL returns the solve endpoint address.
func (c *Client) URL() string {
	return c.baseURL + "/solve"
}

type solveRequest struct {
	Expression string `json:"expression"`
}

type solveResponse struct {
	Success     bool    `json:"success"`
	Result      string  `json:"result"`
	Explanation *string `json:"explanation"`
	Message     *string `json:"message"`
}

// Do sends exactly one solve request and classifies the outcome. It never
// returns a Go error: transport failures become KindNetworkError.
func (c *Client) Do(ctx context.Context, expression string) Result {
	body, err := json.Marshal(solveRequest{Expression: expression})
	if err != nil {
		return networkError(fmt.Errorf("failed to marshal solve request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return networkError(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return networkError(fmt.Errorf("solve request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return networkError(fmt.Errorf("failed to read solve response: %w", err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		// The error body is optional; an unreadable one gets the generic texts.
		var errResp solveResponse
		_ = json.Unmarshal(respBody, &errResp)
		return Result{
			Kind:        KindServerError,
			Message:     orDefault(errResp.Message, FallbackServerMessage),
			Explanation: orDefault(errResp.Explanation, FallbackServerExplanation),
		}
	}

	var resp solveResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return networkError(fmt.Errorf("failed to unmarshal solve response (status %d): %w", httpResp.StatusCode, err))
	}

	if !resp.Success {
		return Result{
			Kind:        KindServerError,
			Message:     orDefault(resp.Message, FallbackServerMessage),
			Explanation: orDefault(resp.Explanation, FallbackFailedExplanation),
		}
	}
	return Result{
		Kind:        KindSuccess,
		Result:      resp.Result,
		Explanation: orDefault(resp.Explanation, ""),
	}
}

func networkError(err error) Result {
	return Result{Kind: KindNetworkError, Detail: err.Error()}
}

func orDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
