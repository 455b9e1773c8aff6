package jobdesk

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	t.Setenv("JOBDESK_TEST_TOKEN", "secret-token")

	type testCase struct {
		name    string
		content string
		verify  func(t *testing.T, cfg *Config)
		wantErr string
	}

	tests := []testCase{
		{
			name: "base url with env",
			content: `
gateway:
  baseURL: https://gw.example.com/prod
  endpoints:
    premium: https://other.example.com/premium
  timeoutMs: 1500
session:
  adminId: admin-1
  token: ${env.JOBDESK_TEST_TOKEN}
review:
  cacheSize: 50
`,
			verify: func(t *testing.T, cfg *Config) {
				endpoints := cfg.Gateway.ResolvedEndpoints()
				assert.Equal(t, "https://gw.example.com/prod/tasks", endpoints.Tasks)
				assert.Equal(t, "https://other.example.com/premium", endpoints.Premium)
				assert.Equal(t, "secret-token", cfg.Session.Token)
				assert.Equal(t, 50, cfg.Review.CacheSize)
				assert.Equal(t, 10, cfg.Tasks.PageSize, "default kept")
				assert.Equal(t, "1.5s", cfg.Gateway.Timeout().String())
				assert.Equal(t, "info", cfg.Log.Level)
			},
		},
		{
			name: "snapshot needs no endpoints",
			content: `
tasks:
  snapshotURL: mem://localhost/jobdesk/tasks.json
  pageSize: 25
theme: plain
`,
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 25, cfg.Tasks.PageSize)
				assert.Equal(t, "plain", cfg.Theme)
			},
		},
		{
			name:    "missing endpoints",
			content: "review:\n  cacheSize: 1\n",
			wantErr: "gateway endpoints not configured",
		},
		{
			name:    "bad theme",
			content: "tasks:\n  snapshotURL: mem://localhost/x.json\ntheme: neon\n",
			wantErr: "unknown theme",
		},
		{
			name:    "bad log level",
			content: "tasks:\n  snapshotURL: mem://localhost/x.json\nlog:\n  level: loud\n",
			wantErr: "invalid log level",
		},
		{
			name:    "malformed yaml",
			content: "gateway: [",
			wantErr: "failed to decode",
		},
	}

	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			URL := "mem://localhost/jobdesk/config/" + strings.ReplaceAll(tc.name, " ", "_") + ".yaml"
			require.NoError(t, fs.Upload(ctx, URL, 0644, strings.NewReader(tc.content)), i)
			cfg, err := LoadConfig(ctx, URL)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.verify(t, cfg)
		})
	}

	_, err := LoadConfig(ctx, "mem://localhost/jobdesk/config/missing.yaml")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gateway.BaseURL = "https://gw.example.com"
	assert.NoError(t, cfg.Validate())

	cfg.Policy.Mode = "sometimes"
	assert.Error(t, cfg.Validate())
	cfg.Policy.Mode = "ask"
	assert.NoError(t, cfg.Validate())

	cfg.Events.MaxRetries = -1
	assert.Error(t, cfg.Validate())
	cfg.Events.MaxRetries = 2
	assert.NoError(t, cfg.Validate())

	cfg.Tasks.PageSize = -1
	assert.Error(t, cfg.Validate())

	var nilConfig *Config
	assert.NoError(t, nilConfig.Validate())
}
