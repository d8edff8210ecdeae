package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/prdaily/pkg/config"
	"github.com/harrisonrobin/prdaily/pkg/daily"
	"github.com/harrisonrobin/prdaily/pkg/estimate"
	"github.com/harrisonrobin/prdaily/pkg/ui"
	"github.com/harrisonrobin/prdaily/pkg/wizard"
)

var configPath string

func main() {
	log.SetFlags(0)
	log.SetPrefix("prdaily: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		ui.Failure(os.Stdout, "%v", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prdaily",
		Short:         "Daily PRD documents, summaries, hours reports and dashboards",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default ~/.config/prdaily/config.json)")

	root.AddCommand(folderCmd())
	root.AddCommand(prdCmd())
	root.AddCommand(summaryCmd())
	root.AddCommand(hoursCmd())
	root.AddCommand(dashboardCmd())
	root.AddCommand(calendarCmd())
	root.AddCommand(configCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func newService() (*daily.Service, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return daily.New(cfg, time.Now), cfg, nil
}

// configDir holds the credentials, token and event index next to the config file.
func configDir() (string, error) {
	path, err := config.Path(configPath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

func folderCmd() *cobra.Command {
	var date, base string

	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Create the YYMMDD folder for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.CreateFolder(date, base)
			if err != nil {
				return err
			}
			ui.Success(cmd.OutOrStdout(), "%s: %s", res.Message, res.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day as YYYYMMDD (default today)")
	cmd.Flags().StringVar(&base, "path", "", "daily work root (default from config)")
	return cmd
}

func prdCmd() *cobra.Command {
	var date, base string

	cmd := &cobra.Command{
		Use:   "prd",
		Short: "Create the PRD_YYYYMMDD.md skeleton for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.CreatePRD(date, base)
			if err != nil {
				return err
			}
			ui.Success(cmd.OutOrStdout(), "%s: %s", res.Message, res.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day as YYYYMMDD (default today)")
	cmd.Flags().StringVar(&base, "path", "", "PRD documents root (default from config)")
	return cmd
}

func summaryCmd() *cobra.Command {
	var date, base, output string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Analyze a daily folder and write RESUMEN_YYMMDD.md",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.Summarize(date, base, output)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ui.Success(out, "%s: %s", res.Message, res.Path)
			ui.Info(out, "%d completadas, %d pendientes, %s, %d archivos",
				res.Completed, res.Pending, estimate.FormatHM(res.Total), res.Files)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day as YYYYMMDD (default today)")
	cmd.Flags().StringVar(&base, "path", "", "daily work root (default from config)")
	cmd.Flags().StringVar(&output, "output", "", "directory for the summary")
	return cmd
}

func hoursCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "hours <prd-file>",
		Short: "Write the HORAS_<name>.md hours report of a PRD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.Hours(args[0], output)
			if err != nil {
				return err
			}
			ui.Success(cmd.OutOrStdout(), "%s: %s", res.Message, res.Path)
			refresh(cmd, svc, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "directory for the report (default next to the PRD)")
	return cmd
}

func dashboardCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dashboard <prd-file>",
		Short: "Write the <name>_DASHBOARD.html page of a PRD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.Dashboard(args[0], output)
			if err != nil {
				return err
			}
			ui.Success(cmd.OutOrStdout(), "%s: %s", res.Message, res.Path)
			refresh(cmd, svc, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "directory for the dashboard (default next to the PRD)")
	return cmd
}

// refresh regenerates the day summary after a PRD-derived report. Failures
// only warn since the report itself was written.
func refresh(cmd *cobra.Command, svc *daily.Service, prdPath string) {
	res, err := svc.RefreshSummary(prdPath)
	if err != nil {
		log.Printf("Warning: could not refresh the day summary: %v", err)
		return
	}
	if res != nil {
		ui.Info(cmd.OutOrStdout(), "Resumen actualizado: %s", res.Path)
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, create or reset the configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configResetCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path(configPath)
			if err != nil {
				return err
			}
			cfg, err := config.Read(path)
			if errors.Is(err, config.ErrNotConfigured) {
				cfg = config.Default()
				path += " (valores por defecto)"
			} else if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.Config(cfg, path))
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or edit the configuration interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg, err = wizard.Run(cfg)
			if errors.Is(err, wizard.ErrCancelled) {
				ui.Info(cmd.OutOrStdout(), "Configuración sin cambios")
				return nil
			}
			if err != nil {
				return err
			}
			if err := config.Save(configPath, cfg); err != nil {
				return err
			}
			path, _ := config.Path(configPath)
			ui.Success(cmd.OutOrStdout(), "Configuración guardada: %s", path)
			return nil
		},
	}
}

func configResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("usa --yes para confirmar el borrado de la configuración")
			}
			if err := config.Remove(configPath); err != nil {
				return err
			}
			ui.Success(cmd.OutOrStdout(), "Configuración eliminada")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
