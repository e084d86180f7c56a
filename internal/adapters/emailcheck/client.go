package emailcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"bodhini/internal/domain"
)

const defaultTimeout = 5 * time.Second

type httpChecker struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

// NewHTTPChecker returns an EmailChecker that calls a remote POST /validate-email endpoint.
// Each call waits at most timeout; expiry is reported as domain.ErrCheckerTimeout.
func NewHTTPChecker(client *http.Client, url string, timeout time.Duration) domain.EmailChecker {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &httpChecker{client: client, url: url, timeout: timeout}
}

func (c *httpChecker) Check(ctx context.Context, email string) (domain.EmailVerdict, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return domain.EmailVerdict{}, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return domain.EmailVerdict{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.EmailVerdict{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.EmailVerdict{}, fmt.Errorf("email checker returned status: %d", resp.StatusCode)
	}
	var verdict domain.EmailVerdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		if isTimeout(err) {
			return domain.EmailVerdict{}, fmt.Errorf("%w: %v", domain.ErrCheckerTimeout, err)
		}
		return domain.EmailVerdict{}, fmt.Errorf("failed to decode email checker response: %w", err)
	}
	return verdict, nil
}

// classifyTransportError maps a client.Do failure onto the checker error taxonomy.
// Timeouts are checked first: a dial that times out is a timeout, not an outage.
func classifyTransportError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", domain.ErrCheckerTimeout, err)
	}
	if isConnectionFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrCheckerUnavailable, err)
	}
	return fmt.Errorf("failed to call email checker: %w", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
