package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		want    GameConfig
		wantErr bool
	}{
		{
			name: "json draw three",
			file: "game.json",
			body: `{"draw_count": 3, "strict_runs": true, "tick_rate": 10, "seed": 99}`,
			want: GameConfig{DrawCount: 3, StrictRuns: true, TickRate: 10, Seed: 99},
		},
		{
			name: "yaml partial uses defaults",
			file: "game.yaml",
			body: "strict_runs: true\n",
			want: GameConfig{DrawCount: 1, StrictRuns: true, TickRate: 5},
		},
		{
			name:    "unsupported draw count",
			file:    "game.json",
			body:    `{"draw_count": 2}`,
			wantErr: true,
		},
		{
			name:    "tick rate too high",
			file:    "game.yaml",
			body:    "tick_rate: 120\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			file:    "game.json",
			body:    `{"draw_count": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadGameConfig(writeFile(t, tt.file, tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGameConfig() error: %v", err)
			}
			if *got != tt.want {
				t.Fatalf("ReadGameConfig() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestReadGameConfigEnvOverride(t *testing.T) {
	t.Setenv("KLONDIKE_DRAW_COUNT", "3")
	got, err := ReadGameConfig(writeFile(t, "game.json", `{"draw_count": 1}`))
	if err != nil {
		t.Fatalf("ReadGameConfig() error: %v", err)
	}
	if got.DrawCount != 3 {
		t.Fatalf("DrawCount = %d, want env override 3", got.DrawCount)
	}
}

func TestReadGameConfigMissingFile(t *testing.T) {
	if _, err := ReadGameConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestGetGameConfigDefaults(t *testing.T) {
	if cfg != nil {
		t.Skip("global config already loaded")
	}
	got := GetGameConfig()
	if got != DefaultGameConfig() {
		t.Fatalf("GetGameConfig() = %+v, want defaults", got)
	}
	opts := got.Options()
	if opts.DrawCount != 1 || opts.StrictRuns {
		t.Fatalf("Options() = %+v", opts)
	}
}

func TestLoadServerConfig(t *testing.T) {
	path := writeFile(t, "server.yaml", `
addr: ":9090"
allow_origins:
  - http://localhost:9090
ping_interval: 5s
message_burst: 0
`)
	got, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig() error: %v", err)
	}
	if got.Addr != ":9090" || got.PingInterval != 5*time.Second {
		t.Fatalf("unexpected config: %+v", got)
	}
	if len(got.AllowOrigins) != 1 || got.AllowOrigins[0] != "http://localhost:9090" {
		t.Fatalf("AllowOrigins = %v", got.AllowOrigins)
	}
	def := DefaultServerConfig()
	if got.MessageBurst != def.MessageBurst || got.MessageRate != def.MessageRate || got.LogLevel != def.LogLevel {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

func TestServerConfigApplyDefaults(t *testing.T) {
	c := ServerConfig{MessageRate: -1, MessageBurst: 0, AllowOrigins: []string{"http://a.test"}}
	c.ApplyDefaults()

	def := DefaultServerConfig()
	if c.Addr != def.Addr || c.PingInterval != def.PingInterval || c.MessageRate != def.MessageRate ||
		c.MessageBurst != def.MessageBurst || c.LogLevel != def.LogLevel {
		t.Fatalf("ApplyDefaults() = %+v, want defaults from %+v", c, def)
	}
	if len(c.AllowOrigins) != 1 {
		t.Fatalf("ApplyDefaults() dropped allow_origins: %v", c.AllowOrigins)
	}
}
