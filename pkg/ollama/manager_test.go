package ollama_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tmtan95/GenAI-demo/internal/models"
	"github.com/Tmtan95/GenAI-demo/pkg/ollama"
)

func tagsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestProbeRunning(t *testing.T) {
	server := tagsServer(t, http.StatusOK, `{"models":[]}`)

	manager := ollama.NewManager(ollama.ManagerConfig{BaseURL: server.URL})
	assert.Equal(t, ollama.StatusRunning, manager.Probe(context.Background()))
}

func TestProbeErrorStatus(t *testing.T) {
	server := tagsServer(t, http.StatusInternalServerError, "")

	manager := ollama.NewManager(ollama.ManagerConfig{BaseURL: server.URL})
	assert.Equal(t, ollama.StatusNotRunning, manager.Probe(context.Background()))
}

func TestProbeUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	manager := ollama.NewManager(ollama.ManagerConfig{BaseURL: url})
	assert.Equal(t, ollama.StatusNotRunning, manager.Probe(context.Background()))
}

func TestEnsureReusesRunningServer(t *testing.T) {
	server := tagsServer(t, http.StatusOK, `{"models":[]}`)

	manager := ollama.NewManager(ollama.ManagerConfig{
		BaseURL:        server.URL,
		StartupTimeout: time.Second,
	})

	stop, err := manager.Ensure(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stop)

	// Stopping must not touch a server we did not launch.
	stop()
	stop()
	assert.Equal(t, ollama.StatusRunning, manager.Probe(context.Background()))
}

func TestListModels(t *testing.T) {
	server := tagsServer(t, http.StatusOK,
		`{"models":[{"name":"phi3:mini","size":123},{"name":"all-minilm:latest"}]}`)

	manager := ollama.NewManager(ollama.ManagerConfig{BaseURL: server.URL})
	names, err := manager.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"phi3:mini", "all-minilm:latest"}, names)
}

func TestListModelsServerError(t *testing.T) {
	server := tagsServer(t, http.StatusInternalServerError, "")

	manager := ollama.NewManager(ollama.ManagerConfig{BaseURL: server.URL})
	_, err := manager.ListModels(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrModelUnavailable))
}

func TestHasModel(t *testing.T) {
	names := []string{"phi3:mini", "all-minilm:latest"}

	tests := []struct {
		want  string
		found bool
	}{
		{"phi3:mini", true},
		{"phi3", true},
		{"all-minilm", true},
		{"llama3", false},
		{"mini", false},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.found, ollama.HasModel(names, tt.want))
		})
	}
}

func TestHasModelEmptyList(t *testing.T) {
	assert.False(t, ollama.HasModel(nil, "phi3"))
}
