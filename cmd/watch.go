package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/resy-watch/internal/config"
	"github.com/example/resy-watch/internal/db"
	"github.com/example/resy-watch/internal/migrate"
	"github.com/example/resy-watch/internal/obslog"
	"github.com/example/resy-watch/internal/resy"
	"github.com/example/resy-watch/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the availability horizon and report release events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cr, err := loadCredentials()
			if err != nil {
				return err
			}
			client := resy.New(cr, cfg.VenueID)

			var sinks []obslog.Sink
			if cfg.ObsLogPath != "" {
				fs, err := obslog.OpenFile(cfg.ObsLogPath)
				if err != nil {
					return fmt.Errorf("open observation log: %w", err)
				}
				defer fs.Close()
				sinks = append(sinks, fs)
			}
			if cfg.DatabaseURL != "" {
				d, err := db.Open(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer d.Close()
				if err := d.Ping(ctx); err != nil {
					return fmt.Errorf("db ping: %w", err)
				}
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
				sinks = append(sinks, obslog.NewPG(d))
			}

			// Release events go to stdout as JSON lines; everything else is
			// slog on stderr.
			enc := json.NewEncoder(os.Stdout)
			w := &watch.Watcher{
				Source:       client,
				Log:          obslog.Multi(sinks...),
				Horizon:      watch.Horizon{Start: cfg.LookaheadStart, End: cfg.LookaheadEnd},
				PartySize:    cfg.PartySize,
				BaseInterval: cfg.BaseInterval,
				Jitter:       cfg.Jitter,
				MinInterval:  cfg.MinInterval,
				MaxPolls:     cfg.MaxPolls,
				OnRelease: func(ev watch.ReleaseEvent) {
					_ = enc.Encode(ev)
				},
			}
			return w.Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("venue", "", "Resy venue id to watch")
	flags.Int("party-size", 2, "party size for availability queries")
	flags.Int("lookahead-start", 11, "first day out to watch")
	flags.Int("lookahead-end", 15, "last day out to watch")
	flags.Duration("base-interval", time.Minute, "base delay between cycles")
	flags.Duration("jitter", 20*time.Second, "random perturbation applied to the base delay")
	flags.Int("max-polls", 0, "stop after this many cycles (0 = run until stopped)")
	flags.String("obslog", "", "path of the append-only observation log")

	_ = viper.BindPFlag("venue_id", flags.Lookup("venue"))
	_ = viper.BindPFlag("party_size", flags.Lookup("party-size"))
	_ = viper.BindPFlag("lookahead_start", flags.Lookup("lookahead-start"))
	_ = viper.BindPFlag("lookahead_end", flags.Lookup("lookahead-end"))
	_ = viper.BindPFlag("base_interval", flags.Lookup("base-interval"))
	_ = viper.BindPFlag("jitter", flags.Lookup("jitter"))
	_ = viper.BindPFlag("max_polls", flags.Lookup("max-polls"))
	_ = viper.BindPFlag("obslog_path", flags.Lookup("obslog"))

	return cmd
}
