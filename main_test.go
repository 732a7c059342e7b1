package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/wricardo/tile-merge-game/api"
	"github.com/wricardo/tile-merge-game/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Tile Merge Game Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "configs"
	defer func() { *configDir = originalConfigDir }()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	gameService, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "/non/existent/path"
	defer func() { *configDir = originalConfigDir }()

	if _, err := initializeServices(); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}
}

func TestGetConfigDirDefault(t *testing.T) {
	t.Setenv("CONFIG_DIR", "")
	if got := getConfigDirDefault(); got != "configs" {
		t.Errorf("Expected configs, got %s", got)
	}

	t.Setenv("CONFIG_DIR", "/tmp/rules")
	if got := getConfigDirDefault(); got != "/tmp/rules" {
		t.Errorf("Expected /tmp/rules, got %s", got)
	}
}

func TestResolveNgrokSettings(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		enabled bool
		auth    string
		domain  string
		want    ngrokSettings
	}{
		{
			name: "disabled by default",
			want: ngrokSettings{},
		},
		{
			name:    "flags win over environment",
			env:     map[string]string{"NGROK_AUTHTOKEN": "env-token", "NGROK_DOMAIN": "env.example"},
			enabled: true,
			auth:    "flag-token",
			domain:  "flag.example",
			want:    ngrokSettings{enabled: true, authToken: "flag-token", domain: "flag.example"},
		},
		{
			name: "environment enables and configures",
			env:  map[string]string{"NGROK_ENABLED": "1", "NGROK_AUTHTOKEN": "env-token", "NGROK_DOMAIN": "env.example"},
			want: ngrokSettings{enabled: true, authToken: "env-token", domain: "env.example"},
		},
		{
			name: "underscore token variant",
			env:  map[string]string{"NGROK_ENABLED": "true", "NGROK_AUTH_TOKEN": "alt-token"},
			want: ngrokSettings{enabled: true, authToken: "alt-token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"NGROK_ENABLED", "NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN", "NGROK_DOMAIN"} {
				t.Setenv(key, tt.env[key])
			}

			got := resolveNgrokSettings(tt.enabled, tt.auth, tt.domain)
			if got != tt.want {
				t.Errorf("resolveNgrokSettings() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewMux(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	originalConfigDir := *configDir
	*configDir = "configs"
	defer func() { *configDir = originalConfigDir }()

	gameService, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	handler := newMux(api.NewServer(gameService, nil), mcp.NewClient("http://127.0.0.1:1"))

	t.Run("api health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/health", nil))
		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rr.Code)
		}
	})

	t.Run("mcp rejects GET", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/mcp", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", rr.Code)
		}
	})

	t.Run("mcp lists tools", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}

		var resp struct {
			Result struct {
				Tools []struct {
					Name string `json:"name"`
				} `json:"tools"`
			} `json:"result"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode MCP response: %v", err)
		}

		names := map[string]bool{}
		for _, tool := range resp.Result.Tools {
			names[tool.Name] = true
		}
		for _, want := range []string{"move", "bulk_move", "game_state", "describe_cell"} {
			if !names[want] {
				t.Errorf("Expected tool %s in %v", want, names)
			}
		}
	})
}

func TestExternalAPIAvailable(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	if !externalAPIAvailable(healthy.URL) {
		t.Error("Expected healthy server to be detected")
	}

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	if externalAPIAvailable(broken.URL) {
		t.Error("Expected failing server to be rejected")
	}
}
