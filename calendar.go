package main

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/prdaily/pkg/auth"
	"github.com/harrisonrobin/prdaily/pkg/datefmt"
	"github.com/harrisonrobin/prdaily/pkg/estimate"
	"github.com/harrisonrobin/prdaily/pkg/google"
	"github.com/harrisonrobin/prdaily/pkg/index"
	"github.com/harrisonrobin/prdaily/pkg/ui"
)

func calendarCmd() *cobra.Command {
	var calendarName string
	var doAuth, dryRun bool

	cmd := &cobra.Command{
		Use:   "calendar [prd-file]",
		Short: "Publish the estimated task timeline of a PRD to Google Calendar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			dir, err := configDir()
			if err != nil {
				return fmt.Errorf("could not find path to configuration file: %w", err)
			}

			if doAuth {
				if err := auth.Reset(dir); err != nil {
					return err
				}
				if _, err := auth.CalendarService(ctx, dir); err != nil {
					return fmt.Errorf("authentication failed: %w", err)
				}
				ui.Success(out, "Autenticación completada: %s", filepath.Join(dir, auth.TokenFile))
				if len(args) == 0 {
					return nil
				}
			}
			if len(args) == 0 {
				return errors.New("se requiere un archivo PRD")
			}

			svc, cfg, err := newService()
			if err != nil {
				return err
			}
			day, slots, err := svc.Timeline(args[0])
			if err != nil {
				return err
			}

			if dryRun {
				for _, s := range slots {
					ui.Info(out, "%s-%s  %-8s %s", s.Start.Format("15:04"), s.End.Format("15:04"),
						estimate.FormatShort(s.End.Sub(s.Start)), s.Task.Heading())
				}
				ui.Success(out, "%d tareas listas para publicar (%s)", len(slots), datefmt.Spanish(day))
				return nil
			}

			name := cfg.Calendar
			if calendarName != "" {
				name = calendarName
			}

			srv, err := auth.CalendarService(ctx, dir)
			if err != nil {
				return err
			}
			idx, err := index.NewEventIndex(filepath.Join(dir, "events.json"))
			if err != nil {
				log.Printf("Warning: failed to initialize event index: %v", err)
			}
			client, err := google.NewClient(ctx, srv, name, idx)
			if err != nil {
				return err
			}

			now := time.Now()
			counts := make(map[google.Action]int)
			keep := make(map[string]bool, len(slots))
			failed := 0
			for _, s := range slots {
				keep[s.ID] = true
				if _, action, err := client.SyncEvent(ctx, s, now); err != nil {
					log.Printf("Error syncing task %d: %v", s.Task.Number, err)
					failed++
				} else {
					counts[action]++
				}
			}

			removed, err := client.Prune(ctx, slots[0].Day, keep)
			if err != nil {
				log.Printf("Warning: could not remove stale events: %v", err)
			}
			if idx != nil {
				if err := idx.Save(); err != nil {
					log.Printf("Warning: failed to save event index: %v", err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d de %d tareas no se pudieron publicar en %q", failed, len(slots), name)
			}
			ui.Success(out, "Calendario %q (%s): %d creadas, %d actualizadas, %d sin cambios, %d eliminadas",
				name, datefmt.Spanish(day), counts[google.Created], counts[google.Updated], counts[google.Unchanged], removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name (overrides config)")
	cmd.Flags().BoolVar(&doAuth, "auth", false, "authenticate with Google Calendar again")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the timeline without publishing")
	return cmd
}
