package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpointPath is the editing service route receiving face URLs.
const DefaultEndpointPath = "/api/v1/unity_image_url"

// maxLoggedBody bounds how much of a response body is logged.
const maxLoggedBody = 512

// Payload is the JSON body of a handoff request.
type Payload struct {
	ImageURL string `json:"image_url"`
}

// Result reports how one dispatch ended.
type Result struct {
	Reference  Reference
	ImageURL   string
	StatusCode int
	Body       string
	Duration   time.Duration
	Err        error
}

// OK reports whether the service accepted the request.
func (r Result) OK() bool {
	return r.Err == nil
}

// Recorder receives dispatch outcomes. The metrics package implements it.
type Recorder interface {
	ObserveHandoff(ok bool, d time.Duration)
}

// Options configures a Client.
type Options struct {
	ServiceURL   string
	EndpointPath string
	CubemapsBase string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Recorder     Recorder
	Logger       *zap.Logger
}

// Client sends face references to the editing service. Dispatches are
// fire-and-forget: one attempt, no retry.
type Client struct {
	endpoint     string
	cubemapsBase string
	timeout      time.Duration
	http         *http.Client
	recorder     Recorder
	log          *zap.Logger
}

// NewClient creates a handoff client.
func NewClient(opts Options) *Client {
	route := opts.EndpointPath
	if route == "" {
		route = DefaultEndpointPath
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		endpoint:     strings.TrimRight(opts.ServiceURL, "/") + "/" + strings.TrimLeft(route, "/"),
		cubemapsBase: opts.CubemapsBase,
		timeout:      timeout,
		http:         hc,
		recorder:     opts.Recorder,
		log:          log,
	}
}

// Endpoint returns the full POST target.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Dispatch sends ref on a new goroutine and returns immediately. The
// returned channel yields exactly one Result and is then closed.
func (c *Client) Dispatch(ctx context.Context, ref Reference) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- c.Send(ctx, ref)
	}()
	return out
}

// Send performs one blocking handoff bounded by the client timeout. The
// outcome is logged here; callers only need the Result to move on.
func (c *Client) Send(ctx context.Context, ref Reference) Result {
	start := time.Now()
	res := c.send(ctx, ref)
	res.Reference = ref
	res.Duration = time.Since(start)

	if c.recorder != nil {
		c.recorder.ObserveHandoff(res.OK(), res.Duration)
	}

	if res.Err != nil {
		c.log.Error("handoff failed",
			zap.Stringer("reference", ref),
			zap.String("endpoint", c.endpoint),
			zap.Int("status", res.StatusCode),
			zap.Duration("elapsed", res.Duration),
			zap.Error(res.Err),
		)
		return res
	}

	c.log.Info("handoff accepted",
		zap.Stringer("reference", ref),
		zap.String("image_url", res.ImageURL),
		zap.Int("status", res.StatusCode),
		zap.String("response", res.Body),
		zap.Duration("elapsed", res.Duration),
	)
	return res
}

func (c *Client) send(ctx context.Context, ref Reference) Result {
	imageURL, err := ImageURL(c.cubemapsBase, ref)
	if err != nil {
		return Result{Err: err}
	}
	res := Result{ImageURL: imageURL}

	body, err := json.Marshal(Payload{ImageURL: imageURL})
	if err != nil {
		res.Err = fmt.Errorf("encoding payload: %w", err)
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		res.Err = fmt.Errorf("creating request: %w", err)
		return res
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("sending handoff", zap.String("endpoint", c.endpoint), zap.String("image_url", imageURL))

	resp, err := c.http.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("posting to %s: %w", c.endpoint, err)
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	res.Body = string(respBody)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Err = fmt.Errorf("editing service returned %s", resp.Status)
	}
	return res
}
