package adminsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const rpcPrefix = "/api/rpc/"

type resultEnvelope struct {
	Result struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
}

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request with the given HTTP client.
func (c *SDKClient) doRequest(
	ctx context.Context,
	hc *http.Client,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// query calls a query procedure with GET, passing input as the input parameter.
func (c *SDKClient) query(ctx context.Context, hc *http.Client, procedure string, input, target any) error {
	path := rpcPrefix + procedure
	if input != nil {
		raw, err := json.Marshal(input)
		if err != nil {
			return fmt.Errorf("failed to encode input: %w", err)
		}
		path += "?input=" + url.QueryEscape(string(raw))
	}

	resp, err := c.doRequest(ctx, hc, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	return decodeResult(resp, target)
}

// mutate calls a mutation procedure with POST and a JSON body.
func (c *SDKClient) mutate(ctx context.Context, hc *http.Client, procedure string, input, target any) error {
	var body io.Reader
	if input != nil {
		raw, err := json.Marshal(input)
		if err != nil {
			return fmt.Errorf("failed to encode input: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	resp, err := c.doRequest(ctx, hc, http.MethodPost, rpcPrefix+procedure, body,
		map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return err
	}
	return decodeResult(resp, target)
}

// decodeResult unwraps result.data into target, or returns an *RPCError.
func decodeResult(resp *http.Response, target any) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return parseErrorResponse(resp, bodyBytes)
	}

	var env resultEnvelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result.Data, target); err != nil {
		return fmt.Errorf("failed to decode result data: %w", err)
	}

	return nil
}

// decodeJSON decodes a plain JSON response such as the health endpoints.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// readText returns a 200 response body as text.
func readText(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", parseErrorResponse(resp, bodyBytes)
	}
	return string(bodyBytes), nil
}
