package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"appliance-alerts-backend/config"
	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/client"
	"appliance-alerts-backend/internal/entity"
	"appliance-alerts-backend/internal/model"
)

type app struct {
	out        io.Writer
	configPath string
	apiURL     string
	now        func() time.Time
	loc        *time.Location
	appliances *client.ApplianceRepository
}

func (a *app) today() calendar.Date {
	return calendar.Of(a.now().In(a.loc))
}

// connect loads the configuration and builds the repository. A missing
// config file is not an error.
func (a *app) connect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
		cfg.ApplyEnv()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", a.configPath, err)
	}
	if a.apiURL != "" {
		cfg.Client.BaseURL = a.apiURL
	}
	if a.loc, err = cfg.Scheduler.Location(); err != nil {
		return err
	}
	a.appliances = client.NewApplianceRepository(client.New(cfg.Client.BaseURL, cfg.Client.Timeout))
	return nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, now: time.Now, loc: time.Local}

	root := &cobra.Command{
		Use:               "alertctl",
		Short:             "Manage appliances and their maintenance alerts",
		SilenceUsage:      true,
		PersistentPreRunE: a.connect,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "./config/config.yaml", "path to the configuration file")
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "API base URL, overrides client.base_url")

	root.AddCommand(
		a.listCmd(),
		a.dueCmd(),
		a.upcomingCmd(),
		a.showCmd(),
		a.addCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.snoozeCmd(),
		a.actionCmd("cancel", "Cancel an appliance's alert", a.cancel),
		a.actionCmd("reactivate", "Reactivate a snoozed or cancelled alert", a.reactivate),
		a.actionCmd("complete", "Complete the current occurrence; recurring alerts move to the next one", a.complete),
	)
	return root
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid appliance id %q", arg)
	}
	return id, nil
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all appliances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apps, err := a.appliances.List(cmd.Context())
			if err != nil {
				return err
			}
			return renderTable(a.out, apps, a.today())
		},
	}
}

func (a *app) dueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List appliances whose alert is due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apps, err := a.appliances.Due(cmd.Context())
			if err != nil {
				return err
			}
			return renderTable(a.out, apps, a.today())
		},
	}
}

func (a *app) upcomingCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List alerts coming up in the next days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apps, err := a.appliances.Upcoming(cmd.Context(), days)
			if err != nil {
				return err
			}
			return renderTable(a.out, apps, a.today())
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "horizon in days (server default when 0)")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one appliance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ap, err := a.appliances.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderDetail(a.out, ap, a.today())
		},
	}
}

// applianceFlags are shared by add and edit. Names match the wire keys.
var applianceFlags = []struct {
	flag, key, usage string
}{
	{"name", "name", "appliance name"},
	{"brand", "brand", "brand"},
	{"model", "model", "model"},
	{"category", "category", "category"},
	{"serial", "serialNumber", "serial number"},
	{"condition", "conditionText", "condition"},
	{"notes", "notes", "notes"},
	{"purchase-date", "purchaseDate", "purchase date (yyyy-mm-dd)"},
	{"warranty", "warrantyMonths", "warranty in months"},
	{"alert-date", "alertDate", "maintenance alert date (yyyy-mm-dd)"},
	{"recurring", "recurringInterval", "NONE, MONTHLY, YEARLY or CUSTOM"},
	{"recurring-days", "recurringIntervalDays", "interval in days for CUSTOM"},
}

func addApplianceFlags(cmd *cobra.Command) {
	for _, f := range applianceFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
}

// changedFields collects the flags given on the command line. An explicit
// empty value becomes null, which clears the field on edit.
func changedFields(cmd *cobra.Command) entity.Payload {
	p := entity.Payload{}
	for _, f := range applianceFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.flag)
		if v == "" {
			p[f.key] = nil
			continue
		}
		p[f.key] = v
	}
	return p
}

func (a *app) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an appliance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ap, err := model.ApplianceFromJSON(changedFields(cmd).Compact())
			if err != nil {
				return err
			}
			created, err := a.appliances.Create(cmd.Context(), ap)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created appliance %d\n", created.ID)
			return renderDetail(a.out, created, a.today())
		},
	}
	addApplianceFlags(cmd)
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of an appliance; an empty value clears the field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fields := changedFields(cmd)
			if len(fields) == 0 {
				return errors.New("nothing to change")
			}
			updated, err := a.appliances.Patch(cmd.Context(), id, fields)
			if err != nil {
				return err
			}
			return renderDetail(a.out, updated, a.today())
		},
	}
	addApplianceFlags(cmd)
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an appliance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.appliances.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted appliance %d\n", id)
			return nil
		},
	}
}

func (a *app) snoozeCmd() *cobra.Command {
	var (
		days  int
		until string
	)
	cmd := &cobra.Command{
		Use:   "snooze ID",
		Short: "Snooze an alert by days or until a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var ap *model.Appliance
			if until != "" {
				d, err := calendar.Parse(until)
				if err != nil {
					return fmt.Errorf("invalid --until: %w", err)
				}
				ap, err = a.appliances.SnoozeUntil(cmd.Context(), id, d)
				if err != nil {
					return err
				}
			} else {
				if ap, err = a.appliances.Snooze(cmd.Context(), id, days); err != nil {
					return err
				}
			}
			return renderDetail(a.out, ap, a.today())
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "number of days to snooze")
	cmd.Flags().StringVar(&until, "until", "", "snooze until this date (yyyy-mm-dd)")
	cmd.MarkFlagsOneRequired("days", "until")
	cmd.MarkFlagsMutuallyExclusive("days", "until")
	return cmd
}

type transition func(cmd *cobra.Command, id int64) (*model.Appliance, error)

func (a *app) cancel(cmd *cobra.Command, id int64) (*model.Appliance, error) {
	return a.appliances.Cancel(cmd.Context(), id)
}

func (a *app) reactivate(cmd *cobra.Command, id int64) (*model.Appliance, error) {
	return a.appliances.Reactivate(cmd.Context(), id)
}

func (a *app) complete(cmd *cobra.Command, id int64) (*model.Appliance, error) {
	return a.appliances.Complete(cmd.Context(), id)
}

func (a *app) actionCmd(use, short string, run transition) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ap, err := run(cmd, id)
			if err != nil {
				return err
			}
			return renderDetail(a.out, ap, a.today())
		},
	}
}
