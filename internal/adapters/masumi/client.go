// Package masumi holds HTTP clients for the two external collaborators: the
// remote climate processing agent and the Masumi payment service. Both speak
// small JSON APIs; neither client retries on its own, since the orchestration
// layer owns retry and polling policy.
package masumi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clearskies/climatewatch/internal/domain/model"
	apperrors "github.com/clearskies/climatewatch/internal/errors"
	"github.com/clearskies/climatewatch/internal/util"
)

const maxErrorBodyBytes = 2048

// AgentConfig captures the subset of agent behaviour we need.
type AgentConfig struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// AgentClient talks to the remote processing agent's start_job and status
// endpoints.
type AgentClient struct {
	baseURL string
	client  *http.Client
}

// NewAgentClient builds an agent client. Callers should pass a validated config.
func NewAgentClient(cfg AgentConfig) (*AgentClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("agent base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &AgentClient{baseURL: baseURL, client: hc}, nil
}

// StartJob registers a new monitoring job with the agent and returns the
// assigned job id together with the payment metadata bundle.
func (c *AgentClient) StartJob(ctx context.Context, req model.StartJobRequest) (*model.StartJobResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode start_job request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/start_job", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create start_job request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var out model.StartJobResponse
	if err := c.do(httpReq, "start monitoring job", &out); err != nil {
		return nil, err
	}
	if out.JobID == "" {
		return nil, apperrors.Protocol("agent returned no job id")
	}
	return &out, nil
}

// GetStatus polls the agent for the current state of a job.
func (c *AgentClient) GetStatus(ctx context.Context, jobID string) (*model.JobStatusResponse, error) {
	if jobID == "" {
		return nil, apperrors.Validation("job id is required")
	}

	u := c.baseURL + "/status?job_id=" + url.QueryEscape(jobID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create status request: %w", err)
	}

	var out model.JobStatusResponse
	if err := c.do(httpReq, "check job status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AgentClient) do(req *http.Request, op string, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeCollaborator, "%s", op)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return collaboratorStatusError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeProtocol, "%s: decode response", op)
	}
	return nil
}

// PaymentConfig captures the Masumi payment service settings.
type PaymentConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	Client  *http.Client
}

// PaymentClient submits escrow purchases to the Masumi payment service. The
// API key travels in the token header and must never reach browsers or logs.
type PaymentClient struct {
	url    string
	apiKey string
	client *http.Client
}

// NewPaymentClient builds a payment client. Callers should pass a validated config.
func NewPaymentClient(cfg PaymentConfig) (*PaymentClient, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, errors.New("payment service url is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("payment api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &PaymentClient{url: u, apiKey: cfg.APIKey, client: hc}, nil
}

// SubmitPayment funds the escrow described by the request. All bundle fields
// are passed through verbatim; the payment service validates them against
// the on-chain state.
func (c *PaymentClient) SubmitPayment(ctx context.Context, req model.PaymentRequest) error {
	if req.IdentifierFromPurchaser == "" || req.BlockchainIdentifier == "" || req.AgentIdentifier == "" {
		return apperrors.Validation("payment request is missing required fields")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("token", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeCollaborator, "submit payment")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return collaboratorStatusError("submit payment", resp)
	}

	// The purchase response body carries bookkeeping we don't use; drain it
	// so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
	return nil
}

func collaboratorStatusError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		return apperrors.Collaborator(fmt.Sprintf("%s: unexpected status %d", op, resp.StatusCode))
	}
	return apperrors.Collaborator(fmt.Sprintf("%s: unexpected status %d: %s", op, resp.StatusCode, util.Truncate(msg, 200)))
}
