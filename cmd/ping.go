package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/resy-watch/internal/creds"
	"github.com/example/resy-watch/internal/resy"
)

// loadCredentials prefers plain env vars and falls back to the sealed file.
func loadCredentials() (resy.Credentials, error) {
	apiKey := os.Getenv("RESY_API_KEY")
	authToken := os.Getenv("RESY_AUTH_TOKEN")
	if apiKey != "" && authToken != "" {
		return resy.Credentials{APIKey: apiKey, AuthToken: authToken}, nil
	}

	path := viper.GetString("creds_path")
	if path == "" {
		return resy.Credentials{}, fmt.Errorf("no credentials: set RESY_API_KEY/RESY_AUTH_TOKEN or creds_path")
	}
	key, err := creds.KeyFromEnv(credKeyEnv)
	if err != nil {
		return resy.Credentials{}, err
	}
	f, err := creds.Load(path, key)
	if err != nil {
		return resy.Credentials{}, fmt.Errorf("load credentials from %s: %w", path, err)
	}
	return resy.Credentials{APIKey: f.APIKey, AuthToken: f.AuthToken}, nil
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Verify the stored session credentials against the Resy API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cr, err := loadCredentials()
			if err != nil {
				return err
			}
			client := resy.New(cr, viper.GetString("venue_id"))
			if err := client.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("credentials ok")
			return nil
		},
	}
}
