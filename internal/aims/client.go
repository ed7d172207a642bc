package aims

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
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	tokenPath    = "/api/v2/token"
	articlesPath = "/api/v2/common/articles"

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
	tokenExpiryMargin = 1 * time.Minute
)

// CredentialsProvider resolves the current AIMS credentials. It is called per
// request so settings changes apply without a restart.
type CredentialsProvider func(ctx context.Context) (Credentials, error)

// StaticCredentials returns a provider that always yields creds.
func StaticCredentials(creds Credentials) CredentialsProvider {
	return func(context.Context) (Credentials, error) {
		return creds, nil
	}
}

type Options struct {
	Credentials CredentialsProvider
	HTTPClient  *http.Client
	Timeout     time.Duration
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Logger      *zap.Logger
}

// Client talks to the AIMS article API. Access tokens are cached per account
// and refreshed on expiry or on a 401.
type Client struct {
	credentials CredentialsProvider
	httpClient  *http.Client
	maxRetries  int
	baseDelay   time.Duration
	maxDelay    time.Duration
	logger      *zap.Logger

	mu          sync.Mutex
	token       string
	tokenKey    string
	tokenExpiry time.Time
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	maxDelay := opts.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	credentials := opts.Credentials
	if credentials == nil {
		credentials = StaticCredentials(Credentials{})
	}
	return &Client{
		credentials: credentials,
		httpClient:  httpClient,
		maxRetries:  maxRetries,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		logger:      logger,
	}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	ResponseMessage struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	} `json:"responseMessage"`
}

type deleteArticlesRequest struct {
	ArticleIDs []string `json:"articleId"`
}

// PushArticles creates or replaces articles in the given AIMS store.
func (c *Client) PushArticles(ctx context.Context, storeCode string, articles []Article) error {
	if len(articles) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPost, storeCode, articles)
}

// DeleteArticles removes articles from the given AIMS store.
func (c *Client) DeleteArticles(ctx context.Context, storeCode string, articleIDs []string) error {
	if len(articleIDs) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodDelete, storeCode, deleteArticlesRequest{ArticleIDs: articleIDs})
}

// ValidateCredentials logs in with the given credentials without caching the token.
func (c *Client) ValidateCredentials(ctx context.Context, creds Credentials) error {
	if !creds.Complete() {
		return ErrNotConfigured
	}
	_, _, err := c.login(ctx, creds)
	return err
}

func (c *Client) do(ctx context.Context, method, storeCode string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	refreshed := false

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = c.doRequest(ctx, method, storeCode, payload)
		if lastErr == nil {
			return nil
		}

		if errors.Is(lastErr, ErrUnauthorized) && !refreshed {
			// Token may have been revoked server-side; log in again once.
			c.invalidateToken()
			refreshed = true
			lastErr = c.doRequest(ctx, method, storeCode, payload)
			if lastErr == nil {
				return nil
			}
		}

		if !isRetryableError(lastErr) {
			return lastErr
		}
		c.logger.Debug("retrying AIMS request",
			zap.String("method", method),
			zap.String("store_code", storeCode),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, method, storeCode string, payload []byte) error {
	creds, err := c.credentials(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve AIMS credentials: %w", err)
	}
	if !creds.Complete() {
		return ErrNotConfigured
	}

	token, err := c.accessToken(ctx, creds)
	if err != nil {
		return err
	}

	u, err := url.Parse(strings.TrimRight(creds.BaseURL, "/") + articlesPath)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	q := u.Query()
	q.Set("company", creds.Company)
	q.Set("store", storeCode)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return checkResponse(resp)
}

func (c *Client) accessToken(ctx context.Context, creds Credentials) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.tokenKey == creds.cacheKey() && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	token, expiresIn, err := c.login(ctx, creds)
	if err != nil {
		return "", err
	}

	c.token = token
	c.tokenKey = creds.cacheKey()
	c.tokenExpiry = time.Now().Add(expiresIn - tokenExpiryMargin)
	return token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

func (c *Client) login(ctx context.Context, creds Credentials) (string, time.Duration, error) {
	body, err := json.Marshal(tokenRequest{Username: creds.Username, Password: creds.Password})
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode login: %w", err)
	}

	endpoint := strings.TrimRight(creds.BaseURL, "/") + tokenPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return "", 0, err
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", 0, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.ResponseMessage.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: empty access token", ErrUnauthorized)
	}

	expiresIn := time.Duration(tokenResp.ResponseMessage.ExpiresIn) * time.Second
	if expiresIn <= tokenExpiryMargin {
		expiresIn = tokenExpiryMargin + time.Minute
	}
	c.logger.Debug("obtained AIMS access token", zap.String("company", creds.Company), zap.Duration("expires_in", expiresIn))
	return tokenResp.ResponseMessage.AccessToken, expiresIn, nil
}

func checkResponse(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}

func (c *Client) retryDelay(attempt int) time.Duration {
	delay := c.baseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
	}
	if delay > c.maxDelay {
		delay = c.maxDelay
	}
	return delay
}
