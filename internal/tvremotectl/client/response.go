package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a failed response from the gateway
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// decodeResponse decodes a JSON response into the provided target
func decodeResponse(resp *http.Response, target interface{}) error {
	if err := handleResponse(resp); err != nil {
		return err
	}
	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}
	return nil
}

// handleResponse processes an API response and returns an error if the status code indicates failure
func handleResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
}
