// Package holdprint reads jobs from the Holdprint job-management API.
package holdprint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

const jobsPath = "/api-key/jobs/data"

type Config struct {
	BaseURL string
	// APIKeys maps an upper-case branch code to its api key.
	APIKeys    map[string]string
	Timeout    time.Duration
	RetryCount int
}

type Client struct {
	http    *resty.Client
	apiKeys map[string]string
	logger  *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	keys := make(map[string]string, len(cfg.APIKeys))
	for branch, key := range cfg.APIKeys {
		keys[strings.ToUpper(strings.TrimSpace(branch))] = key
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Accept", "application/json")

	return &Client{http: client, apiKeys: keys, logger: logger}
}

// HTTPClient exposes the underlying transport so tests can intercept it.
func (c *Client) HTTPClient() *http.Client {
	return c.http.GetClient()
}

func (c *Client) ListJobs(ctx context.Context, branch string) ([]domain.RawJob, error) {
	key, ok := c.apiKeys[strings.ToUpper(strings.TrimSpace(branch))]
	if !ok || key == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBranch, branch)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", key).
		Get(jobsPath)
	if err != nil {
		c.logger.Error("holdprint request failed", zap.String("branch", branch), zap.Error(err))
		return nil, fmt.Errorf("fetch jobs for %s: %w", branch, err)
	}
	if resp.IsError() {
		c.logger.Error("holdprint returned error",
			zap.String("branch", branch),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("fetch jobs for %s: unexpected status %d", branch, resp.StatusCode())
	}

	jobs, err := decodeJobs(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode jobs for %s: %w", branch, err)
	}
	c.logger.Debug("holdprint jobs fetched", zap.String("branch", branch), zap.Int("count", len(jobs)))
	return jobs, nil
}

// FetchJob scans the branch listing; the API has no single-job endpoint.
func (c *Client) FetchJob(ctx context.Context, branch, externalID string) (domain.RawJob, error) {
	jobs, err := c.ListJobs(ctx, branch)
	if err != nil {
		return domain.RawJob{}, err
	}
	for _, job := range jobs {
		if job.ExternalID == externalID {
			return job, nil
		}
	}
	return domain.RawJob{}, domain.ErrUpstreamJobMissing
}

type upstreamJob struct {
	ID       json.RawMessage `json:"id"`
	Code     json.RawMessage `json:"code"`
	Title    string          `json:"title"`
	Customer *struct {
		Name string `json:"name"`
	} `json:"client"`
	CustomerName string              `json:"customerName"`
	Products     []domain.RawProduct `json:"products"`
	Items        []domain.RawProduct `json:"items"`
}

func (j upstreamJob) toRaw() domain.RawJob {
	id := scalarString(j.ID)
	if id == "" {
		id = scalarString(j.Code)
	}
	client := j.CustomerName
	if j.Customer != nil && j.Customer.Name != "" {
		client = j.Customer.Name
	}
	products := j.Products
	if len(products) == 0 {
		products = j.Items
	}
	return domain.RawJob{
		ExternalID: id,
		Title:      j.Title,
		ClientName: client,
		Products:   products,
	}
}

// decodeJobs accepts either {"data": [...]} or a bare array.
func decodeJobs(body []byte) ([]domain.RawJob, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	var list []upstreamJob
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, err
		}
	case '{':
		var envelope struct {
			Data []upstreamJob `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		list = envelope.Data
	default:
		return nil, errors.New("unexpected payload")
	}

	out := make([]domain.RawJob, 0, len(list))
	for _, j := range list {
		raw := j.toRaw()
		if raw.ExternalID == "" {
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}

// scalarString renders a JSON string or number id as text.
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}
