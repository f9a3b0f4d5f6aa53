// Package kex implements the key-exchange relay: a low-trust key/value
// rendezvous service, that two devices unable to discover each other use to
// exchange a public key and a sealed payload, addressed by a short
// human-enterable PIN. The relay is a capability broker, not an
// authenticator: there is no access control beyond key-guessing difficulty.
package kex

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrKeyNotFound is returned by Get when the relay holds no value under the
// given key. Callers must treat it as an expected outcome, not as a
// transport failure.
var ErrKeyNotFound = errors.New("key does not exist")

// Client allows getting and setting values on a key-exchange relay
type Client interface {
	Get(key string) (string, error)
	Set(key string, value string) error
}

type httpClient struct {
	serverURL string
	client    *http.Client
}

type getValueResponse struct {
	Value string `json:"value"`
}

type setValueRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (c *httpClient) Get(key string) (string, error) {
	getURL := fmt.Sprintf("%s/kex/v1/%s", c.serverURL, key)
	resp, err := c.client.Get(getURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", ErrKeyNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("relay returned status code %d when called %s", resp.StatusCode, getURL)
	}
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return "", readErr
	}
	var decoded getValueResponse
	if decodeErr := json.Unmarshal(body, &decoded); decodeErr != nil {
		return "", decodeErr
	}
	return decoded.Value, nil
}

func (c *httpClient) Set(key string, value string) error {
	encoded, encodeErr := json.Marshal(setValueRequest{Key: key, Value: value})
	if encodeErr != nil {
		return encodeErr
	}
	putURL := c.serverURL + "/kex/v1"
	request, requestErr := http.NewRequest(http.MethodPut, putURL, bytes.NewReader(encoded))
	if requestErr != nil {
		return requestErr
	}
	request.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay returned status code %d when called %s", resp.StatusCode, putURL)
	}
	return nil
}

// NewHTTPClient executes relay get/set operations against an HTTP relay server
func NewHTTPClient(serverURL string) Client {
	return &httpClient{
		serverURL: serverURL,
		client:    &http.Client{},
	}
}
