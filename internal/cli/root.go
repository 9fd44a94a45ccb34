package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type Config struct {
	Server       string
	Token        string
	OutputWriter io.Writer
}

func DefaultConfig() Config {
	server := os.Getenv("WAITLIST_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}
	return Config{
		Server:       server,
		Token:        os.Getenv("WAITLIST_ADMIN_TOKEN"),
		OutputWriter: os.Stdout,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "waitlistctl",
		Short:         "Operator commands for the RHYDLE waitlist",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(cfg.OutputWriter)
	root.PersistentFlags().StringVar(&cfg.Server, "server", cfg.Server, "waitlist server base URL (env WAITLIST_SERVER)")
	root.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "admin bearer token (env WAITLIST_ADMIN_TOKEN)")

	client := func() *Client { return NewClient(cfg.Server, cfg.Token) }

	call := func(cmd *cobra.Command, method, path string, body any) error {
		data, err := client().Do(cmd.Context(), method, path, body)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), data)
	}

	root.AddCommand(&cobra.Command{
		Use:   "setup-headers",
		Short: "Prepare the signup store (header row / table)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return call(cmd, "POST", "/admin/setup", nil)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "test-welcome EMAIL",
		Short: "Send a one-off welcome email without touching any record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, "POST", "/admin/test/welcome", map[string]string{"email": args[0]})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "test-beta EMAIL",
		Short: "Send a one-off beta APK email without touching any record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, "POST", "/admin/test/beta", map[string]string{"email": args[0]})
		},
	})

	var sync bool
	sendNow := &cobra.Command{
		Use:   "send-beta-now",
		Short: "Send the beta email to every signup not yet notified",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sync {
				return call(cmd, "POST", "/admin/beta/sweep", nil)
			}
			return call(cmd, "POST", "/admin/beta/send-now", nil)
		},
	}
	sendNow.Flags().BoolVar(&sync, "sync", false, "run the sweep in the request and print the result")
	root.AddCommand(sendNow)

	var at string
	schedule := &cobra.Command{
		Use:   "schedule",
		Short: "Replace any schedule with a single beta sweep at --at (default BETA_LAUNCH_DATE)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := map[string]string{}
			if at != "" {
				if _, err := time.Parse(time.RFC3339, at); err != nil {
					return errors.New("--at must be RFC3339, e.g. 2026-02-21T09:00:00Z")
				}
				body["fire_at"] = at
			}
			return call(cmd, "PUT", "/admin/schedule", body)
		},
	}
	schedule.Flags().StringVar(&at, "at", "", "fire time (RFC3339)")
	root.AddCommand(schedule)

	root.AddCommand(&cobra.Command{
		Use:   "unschedule",
		Short: "Remove the pending beta sweep schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return call(cmd, "DELETE", "/admin/schedule", nil)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every signup row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return call(cmd, "GET", "/admin/signups", nil)
		},
	})

	return root
}

func printJSON(w io.Writer, data []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err := fmt.Fprintln(w, out.String())
	return err
}
