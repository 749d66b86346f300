// Package device provides the HTTP client for the on-device bridge that owns
// screen captures and input injection. The bridge is a separate privileged
// process; this client is the agent's only path to the foreign app's screen
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"ordersnag/internal/core/uiprobe"
	perr "ordersnag/internal/platform/errors"
	"ordersnag/internal/platform/logger"
	insdom "ordersnag/internal/services/inspector/domain"
)

const (
	baseURLDefault   = "http://127.0.0.1:8471"
	defaultTimeout   = 5 * time.Second
	defaultMaxRetry  = 2
	defaultRetryBase = 200 * time.Millisecond
	maxBodyBytes     = 16 * 1024 * 1024
)

// Options configures the Client
type Options struct {
	BaseURL string
	Timeout time.Duration

	// Retry config for transient failures; triggers are never retried here
	// because the executor owns the re-inspect-then-retry loop
	MaxRetries int
	RetryBase  time.Duration
}

// Client talks to the bridge; implements the inspector's screen port
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("device"),
		sleep: time.Sleep,
	}
}

// Snapshot fetches the current capture for a package
func (c *Client) Snapshot(ctx context.Context, pkg string) (insdom.Capture, error) {
	url := fmt.Sprintf("%s/v1/snapshot?package=%s", c.opts.BaseURL, neturl.QueryEscape(pkg))

	var body []byte
	var err error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(c.opts.RetryBase * time.Duration(attempt))
		}
		body, err = c.get(ctx, url)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
		c.log.Debug().Int("attempt", attempt).Err(err).Msg("snapshot attempt failed")
	}
	if err != nil {
		return insdom.Capture{}, perr.Wrap(err, perr.ErrorCodeInspection, "bridge snapshot")
	}

	var resp snapshotResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return insdom.Capture{}, perr.Wrap(err, perr.ErrorCodeInspection, "bridge snapshot decode")
	}

	snap := insdom.Capture{Tree: resp.Tree.node()}
	if len(resp.ScreenPNG) > 0 {
		img, err := png.Decode(bytes.NewReader(resp.ScreenPNG))
		if err != nil {
			// a broken frame should not sink the tree path
			c.log.Warn().Err(err).Msg("screen frame undecodable, tree only")
		} else {
			snap.Screen = toGray(img)
		}
	}
	return snap, nil
}

// Trigger invokes a previously located control. False with nil error means
// the bridge executed the tap but the control no longer matched
func (c *Client) Trigger(ctx context.Context, h uiprobe.Handle) (bool, error) {
	payload, err := json.Marshal(triggerRequest{
		Kind:   string(h.Kind),
		NodeID: h.NodeID,
		X:      h.X,
		Y:      h.Y,
	})
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeTrigger, "bridge trigger encode")
	}

	url := c.opts.BaseURL + "/v1/trigger"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeTrigger, "bridge trigger request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeTrigger, "bridge trigger")
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeTrigger, "bridge trigger read")
	}
	if res.StatusCode != http.StatusOK {
		return false, perr.Triggerf("bridge trigger status %d", res.StatusCode)
	}

	var out triggerResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeTrigger, "bridge trigger decode")
	}
	return out.OK, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}
	return body, nil
}

// toGray flattens any decoded image into the matcher's grayscale form
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	draw.Draw(g, b, img, b.Min, draw.Src)
	return g
}
