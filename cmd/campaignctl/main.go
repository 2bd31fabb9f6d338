// cmd/campaignctl/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/unclebandit/campaign-manager/internal/client"
	"github.com/unclebandit/campaign-manager/internal/logger"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs once flags are resolved.
type app struct {
	manager *client.Manager
	out     io.Writer
	closer  func() error
}

func newRootCmd(out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CAMPAIGNCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	a := &app{out: out}

	root := &cobra.Command{
		Use:           "campaignctl",
		Short:         "Manage marketing campaigns through the API with an offline fallback",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(v)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-url", "http://localhost:3001", "campaign API base URL")
	flags.String("store", "file", "local fallback store: file or redis")
	flags.String("store-path", "campaigns.json", "JSON file used by the file store")
	flags.String("redis-addr", "127.0.0.1:6379", "Redis address used by the redis store")
	flags.String("log-level", "warn", "log level")
	_ = v.BindPFlags(flags)

	root.AddCommand(
		a.listCmd(),
		a.getCmd(),
		a.createCmd(),
		a.updateCmd(),
		a.patchCmd(),
		a.deleteCmd(),
		a.statsCmd(),
		a.healthCmd(),
		a.seedLocalCmd(),
	)
	return root
}

func (a *app) init(v *viper.Viper) error {
	zlog, err := logger.New("development", v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	var local client.LocalStore
	switch v.GetString("store") {
	case "file":
		local = client.NewFileStore(v.GetString("store-path"))
	case "redis":
		rs, err := client.NewRedisStore(client.RedisOpts{Addr: v.GetString("redis-addr")})
		if err != nil {
			return err
		}
		a.closer = rs.Close
		local = rs
	default:
		return fmt.Errorf("unknown store %q", v.GetString("store"))
	}

	a.manager = client.NewManager(client.NewAPIClient(v.GetString("api-url")), local, zlog)
	return nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) note(src client.Source) {
	if src == client.SourceLocal {
		fmt.Fprintln(os.Stderr, "(local store)")
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List campaigns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			campaigns, src, err := a.manager.List(context.Background())
			if err != nil {
				return err
			}
			a.note(src)
			return a.print(campaigns)
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.manager.API.GetCampaign(context.Background(), client.CampaignID(args[0]))
			if err != nil {
				return err
			}
			return a.print(c)
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	var in client.CampaignInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a Draft campaign",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, src, err := a.manager.Create(context.Background(), in)
			if err != nil {
				return err
			}
			a.note(src)
			return a.print(c)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "campaign name")
	cmd.Flags().StringVar(&in.Type, "type", "Email", "Email or WhatsApp")
	cmd.Flags().StringVar(&in.Description, "description", "", "campaign description")
	return cmd
}

// optional returns a pointer to the flag value when the flag was given.
func optional(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	s, _ := cmd.Flags().GetString(name)
	return &s
}

func optionalInt(cmd *cobra.Command, name string) *int64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	n, _ := cmd.Flags().GetInt64(name)
	return &n
}

func (a *app) updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update name, type, description or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := client.UpdateInput{
				Name:        optional(cmd, "name"),
				Type:        optional(cmd, "type"),
				Description: optional(cmd, "description"),
				Status:      optional(cmd, "status"),
			}
			c, err := a.manager.API.UpdateCampaign(context.Background(), client.CampaignID(args[0]), in)
			if err != nil {
				return err
			}
			return a.print(c)
		},
	}
	cmd.Flags().String("name", "", "campaign name")
	cmd.Flags().String("type", "", "Email or WhatsApp")
	cmd.Flags().String("description", "", "campaign description")
	cmd.Flags().String("status", "", "Active, Draft or Completed")
	return cmd
}

func (a *app) patchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <id>",
		Short: "Set status or the sent/replies counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := client.PatchInput{
				Status:  optional(cmd, "status"),
				Sent:    optionalInt(cmd, "sent"),
				Replies: optionalInt(cmd, "replies"),
			}
			c, err := a.manager.API.PatchCampaign(context.Background(), client.CampaignID(args[0]), in)
			if err != nil {
				return err
			}
			return a.print(c)
		},
	}
	cmd.Flags().String("status", "", "Active, Draft or Completed")
	cmd.Flags().Int64("sent", 0, "messages sent")
	cmd.Flags().Int64("replies", 0, "replies received")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.manager.API.DeleteCampaign(context.Background(), client.CampaignID(args[0]))
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, src, err := a.manager.Stats(context.Background())
			if err != nil {
				return err
			}
			a.note(src)
			return a.print(stats)
		},
	}
}

var errUnhealthy = errors.New("API unavailable")

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API and database connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.manager.Online(context.Background()) {
				return errUnhealthy
			}
			fmt.Fprintln(a.out, "ok")
			return nil
		},
	}
}

func (a *app) seedLocalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-local",
		Short: "Load demo campaigns into an empty local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager.SeedDemo(context.Background()); err != nil {
				return err
			}
			a.manager.Log.Info("Local store ready")
			fmt.Fprintln(a.out, "ok")
			return nil
		},
	}
}

