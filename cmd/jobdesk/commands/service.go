package commands

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bigsources/jobdesk"
	"github.com/bigsources/jobdesk/session"
)

// newService builds the client from the config URL and persistent flags.
func newService(cmd *cobra.Command) (*jobdesk.Service, *Renderer, error) {
	ctx := cmd.Context()
	flags := cmd.Flags()
	configURL, _ := flags.GetString("config")
	baseURL, _ := flags.GetString("base-url")
	snapshot, _ := flags.GetString("snapshot")
	adminID, _ := flags.GetString("admin")
	token, _ := flags.GetString("token")
	themeName, _ := flags.GetString("theme")
	verbose, _ := flags.GetCount("verbose")

	cfg := jobdesk.DefaultConfig()
	if configURL != "" {
		loaded, err := jobdesk.LoadConfig(ctx, configURL)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	if baseURL != "" {
		cfg.Gateway.BaseURL = baseURL
	}
	if snapshot != "" {
		cfg.Tasks.SnapshotURL = snapshot
	}
	if themeName != "" {
		cfg.Theme = themeName
	}
	if verbose > 0 {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.WithHint(err, "pass --config, --base-url or --snapshot")
	}
	theme, err := session.ParseTheme(cfg.Theme)
	if err != nil {
		return nil, nil, err
	}

	sess := cfg.Session
	if adminID != "" {
		sess.AdminID = adminID
	}
	if token != "" {
		sess.Token = token
	}
	srv, err := jobdesk.New(ctx, jobdesk.WithConfig(cfg), jobdesk.WithSession(session.New(sess.AdminID, sess.Token)))
	if err != nil {
		return nil, nil, err
	}
	return srv, NewRenderer(cmd.OutOrStdout(), theme), nil
}

// AddGlobalFlags registers the flags every command reads through newService.
func AddGlobalFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "Config URL (file path, file://, mem://, s3://)")
	flags.String("base-url", os.Getenv("JOBDESK_BASE_URL"), "API Gateway base URL, overrides the config")
	flags.String("snapshot", "", "Read tasks from a JSON snapshot URL instead of the gateway")
	flags.String("admin", os.Getenv("JOBDESK_ADMIN"), "Acting admin id")
	flags.String("token", os.Getenv("JOBDESK_TOKEN"), "Admin bearer token")
	flags.String("theme", "", "Output theme (color, plain)")
	flags.CountP("verbose", "v", "Increase log verbosity")
}
