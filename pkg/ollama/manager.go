package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/Tmtan95/GenAI-demo/internal/models"
)

type Status int

const (
	StatusNotRunning Status = iota
	StatusRunning
)

type ManagerConfig struct {
	BaseURL        string
	StartupTimeout time.Duration
}

// Manager supervises a local Ollama server. It can probe for a running
// instance, launch one when none answers, and stop only the instance it
// launched itself. A server that was already running is never touched.
type Manager struct {
	config ManagerConfig
	client *http.Client

	mu          sync.Mutex
	cmd         *exec.Cmd
	startedByUs bool
}

func NewManager(config ManagerConfig) *Manager {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.StartupTimeout == 0 {
		config.StartupTimeout = 30 * time.Second
	}
	return &Manager{
		config: config,
		client: &http.Client{Timeout: 3 * time.Second},
	}
}

// Probe checks whether a server is answering at the configured URL.
func (m *Manager) Probe(ctx context.Context) Status {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.config.BaseURL+"/api/tags", http.NoBody)
	if err != nil {
		return StatusNotRunning
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return StatusNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StatusNotRunning
	}
	return StatusRunning
}

// Ensure makes a server reachable, launching `ollama serve` when none
// answers, and waits until it accepts requests. The returned stop
// function shuts down only a server this process launched; calling it
// more than once is safe.
func (m *Manager) Ensure(ctx context.Context) (func(), error) {
	if m.Probe(ctx) == StatusRunning {
		return func() {}, nil
	}

	cmd := exec.Command("ollama", "serve")
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting ollama serve: %v", models.ErrModelUnavailable, err)
	}

	m.mu.Lock()
	m.cmd = cmd
	m.startedByUs = true
	m.mu.Unlock()

	if err := m.waitReady(ctx); err != nil {
		m.stop()
		return nil, err
	}

	var once sync.Once
	return func() { once.Do(m.stop) }, nil
}

// waitReady polls the server until it answers or the startup timeout
// runs out. Probes are paced so a slow start is not hammered.
func (m *Manager) waitReady(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, m.config.StartupTimeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(500*time.Millisecond), 1)
	for {
		if err := limiter.Wait(waitCtx); err != nil {
			return fmt.Errorf("%w: server did not become ready within %s", models.ErrModelUnavailable, m.config.StartupTimeout)
		}
		if m.Probe(waitCtx) == StatusRunning {
			return nil
		}
	}
}

// stop terminates the launched server, escalating to a hard kill when it
// does not exit in time.
func (m *Manager) stop() {
	m.mu.Lock()
	cmd := m.cmd
	started := m.startedByUs
	m.cmd = nil
	m.startedByUs = false
	m.mu.Unlock()

	if !started || cmd == nil || cmd.Process == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		<-done
	}
}

// ListModels returns the model names the server reports as pulled.
func (m *Manager) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.config.BaseURL+"/api/tags", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building tags request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: server answered %s", models.ErrModelUnavailable, resp.Status)
	}

	var payload struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding tags response: %w", err)
	}

	names := make([]string, 0, len(payload.Models))
	for _, model := range payload.Models {
		names = append(names, model.Name)
	}
	return names, nil
}

// HasModel reports whether want is among names. A bare model name
// matches any tag of that model, so "phi3" matches "phi3:mini".
func HasModel(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
		if base, _, found := strings.Cut(name, ":"); found && base == want {
			return true
		}
	}
	return false
}
