package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/banshee-data/minball/internal/minball"
)

// HTTPDoer is the part of *http.Client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a running minball-server.
type Client struct {
	BaseURL string
	HTTP    HTTPDoer
}

// NewClient returns a client for the server at baseURL. A nil doer selects
// http.DefaultClient.
func NewClient(baseURL string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: doer}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(data, &body) != nil || body.Error == "" {
			body.Error = strings.TrimSpace(string(data))
		}
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Minball asks the server for the minimum enclosing ball of balls.
func (c *Client) Minball(balls []minball.Ball2D) (*MinballResponse, error) {
	body, err := json.Marshal(MinballRequest{Balls: balls})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/api/minball", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out MinballResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Discretize uploads a PDB tunnel and returns the stored run. params holds
// query overrides such as delta or smooth.
func (c *Client) Discretize(pdb io.Reader, source string, params url.Values) (*DiscretizeResponse, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if source != "" {
		q.Set("source", source)
	}
	u := c.BaseURL + "/api/discretize"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequest(http.MethodPost, u, pdb)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "chemical/x-pdb")
	var out DiscretizeResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
