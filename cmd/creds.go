package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/resy-watch/internal/creds"
)

const credKeyEnv = "RESYWATCH_CRED_KEY"

func newCredsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "creds",
		Short: "Manage the sealed Resy session credentials file",
	}
	root.AddCommand(newCredsSetCmd())
	return root
}

func newCredsSetCmd() *cobra.Command {
	var apiKey, authToken, path string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Seal the API key and auth token to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = viper.GetString("creds_path")
			}
			if path == "" {
				return fmt.Errorf("--path or creds_path is required")
			}
			if apiKey == "" || authToken == "" {
				return fmt.Errorf("--api-key and --auth-token are required")
			}
			key, err := creds.KeyFromEnv(credKeyEnv)
			if err != nil {
				return err
			}
			if err := creds.Save(path, key, creds.File{APIKey: apiKey, AuthToken: authToken}); err != nil {
				return err
			}
			fmt.Printf("credentials sealed to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Resy API key from the browser session")
	cmd.Flags().StringVar(&authToken, "auth-token", "", "Resy auth token from the browser session")
	cmd.Flags().StringVar(&path, "path", "", "where to write the sealed file")
	return cmd
}
