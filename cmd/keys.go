package cmd

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"

	"github.com/example/resy-watch/internal/creds"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate a RESYWATCH_CRED_KEY value (base64)",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := securecookie.GenerateRandomKey(creds.KeySize)
			if key == nil {
				return fmt.Errorf("random key generation failed")
			}
			fmt.Fprintf(os.Stdout, "export RESYWATCH_CRED_KEY=%s\n", base64.StdEncoding.EncodeToString(key))
			return nil
		},
	}
}
