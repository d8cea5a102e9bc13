package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// HTTPCommander drives the on-device watering relay over the device's
// HTTP interface.
type HTTPCommander struct {
	client *http.Client
}

// NewHTTPCommander creates a commander with a default client. Timeouts
// come from the caller's context.
func NewHTTPCommander() *HTTPCommander {
	return &HTTPCommander{client: &http.Client{}}
}

func (h *HTTPCommander) SendCommand(ctx context.Context, ip string, durationSeconds, pin int) error {
	url := fmt.Sprintf("http://%s/water?pin=%d&duration=%d", ip, pin, durationSeconds)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("device unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("device returned %d", resp.StatusCode)
	}
	return nil
}

// SimCommander simulates watering outcomes for deployments without real
// hardware and for tests. Failures can be injected per device address.
type SimCommander struct {
	mu      sync.Mutex
	failFor map[string]error
	Calls   []string // device addresses commanded, in order
}

// NewSimCommander creates a simulator where every command succeeds.
func NewSimCommander() *SimCommander {
	return &SimCommander{failFor: make(map[string]error)}
}

// FailWith makes commands to ip fail with err.
func (s *SimCommander) FailWith(ip string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFor[ip] = err
}

func (s *SimCommander) SendCommand(ctx context.Context, ip string, durationSeconds, pin int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, ip)
	if err, ok := s.failFor[ip]; ok {
		return err
	}
	return nil
}
