package zulip

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
)

// Client posts stream messages to a Zulip server via the REST API. One
// SendMessage call maps to one POST /api/v1/messages request; the server
// routes the message into the stream topic.
type Client struct {
	baseURL    string
	stream     string
	botEmail   string
	botAPIKey  string
	httpClient *http.Client
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// NewClient creates a Zulip messenger. baseURL is the server root
// (e.g. https://chat.example.com), stream is the destination stream name.
func NewClient(baseURL, stream, botEmail, botAPIKey string, opts ...Option) (interfaces.Messenger, error) {
	if baseURL == "" {
		return nil, goerr.New("zulip base URL is required")
	}
	if stream == "" {
		return nil, goerr.New("zulip stream is required")
	}
	if botEmail == "" || botAPIKey == "" {
		return nil, goerr.New("zulip bot credentials are required")
	}

	client := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		stream:    stream,
		botEmail:  botEmail,
		botAPIKey: botAPIKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SendMessage posts one message to the configured stream under topic.
// eventKind is carried in the User-Agent for server-side log correlation
// and has no effect on delivery.
func (c *Client) SendMessage(ctx context.Context, topic, body, eventKind string) error {
	form := url.Values{}
	form.Set("type", "stream")
	form.Set("to", c.stream)
	form.Set("topic", topic)
	form.Set("content", body)

	endpoint := c.baseURL + "/api/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return goerr.Wrap(err, "failed to create zulip request", goerr.V("endpoint", endpoint))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "herald/"+eventKind)
	req.SetBasicAuth(c.botEmail, c.botAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to post zulip message", goerr.V("endpoint", endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("zulip API returned an error",
			goerr.V("status", resp.StatusCode),
			goerr.V("response", string(respBody)),
			goerr.V("topic", topic),
		)
	}
	return nil
}
