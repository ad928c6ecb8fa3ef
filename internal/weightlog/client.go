package weightlog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/weighttrend/internal/telemetry/tracing"
	"github.com/2beens/weighttrend/internal/weighttrend"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Client reads weight logs and goal profiles from the upstream profile API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) ListEntries(ctx context.Context, userID string) (_ []weighttrend.WeightLogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client.weightlog.listEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var entries []weighttrend.WeightLogEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%s/weight-log", url.PathEscape(userID)), &entries); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	return entries, nil
}

func (c *Client) GetProfile(ctx context.Context, userID string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client.weightlog.getProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	profile := &Profile{}
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%s/profile", url.PathEscape(userID)), profile); err != nil {
		return nil, err
	}
	profile.UserID = userID

	return profile, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		if err := resp.Body.Close(); err != nil {
			log.Warnf("close weightlog response body: %s", err)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound && strings.HasSuffix(path, "/profile"):
		return ErrProfileNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}
