package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/pauselab/internal/service"
	"github.com/dtroode/pauselab/internal/token"
)

func (c *cli) remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Turn daily reminders on or off, or run the reminder loop",
	}

	toggle := func(enabled bool) *cobra.Command {
		return &cobra.Command{
			Use:   onOff(enabled),
			Short: fmt.Sprintf("Turn reminders %s", onOff(enabled)),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				data, err := c.app.progress.ToggleReminders(cmd.Context(), enabled)
				if err != nil {
					return err
				}
				c.printf("Reminders %s\n", onOff(data.RemindersEnabled))
				return nil
			},
		}
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Deliver reminders until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !c.app.progress.State().Data.RemindersEnabled {
				c.printf("Reminders are off; turn them on with 'pauselab reminders on'\n")
				return nil
			}

			granted, err := c.app.scheduler.RequestPermission(ctx)
			if err != nil {
				return err
			}
			if !granted {
				return fmt.Errorf("reminder delivery is not permitted")
			}

			if err := c.app.scheduler.ScheduleDailyReminders(ctx); err != nil {
				return err
			}
			c.app.logger.Info("Reminder loop running", "notifier", c.app.cfg.Reminders.Notifier)

			<-ctx.Done()
			c.app.logger.Info("received interruption signal, shutting down")
			return nil
		},
	}

	cmd.AddCommand(toggle(true), toggle(false), run)
	return cmd
}

func (c *cli) consentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consent",
		Short: "Turn research data sharing on or off",
	}

	for _, enabled := range []bool{true, false} {
		cmd.AddCommand(&cobra.Command{
			Use:   onOff(enabled),
			Short: fmt.Sprintf("Turn research consent %s", onOff(enabled)),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				data, err := c.app.progress.ToggleResearchConsent(cmd.Context(), enabled)
				if err != nil {
					return err
				}
				c.printf("Research consent %s\n", onOff(data.ResearchConsent))
				return nil
			},
		})
	}

	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the anonymised research export and its signed receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.app.exporter.Export(cmd.Context(), c.app.progress.State().Data)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if err := os.WriteFile(path, result.Payload, 0o600); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			c.printf("Exported %d pause(s) to %s\n", result.Document.TotalPauses, path)
			if result.ObjectKey != "" {
				c.printf("Uploaded as %s\n", result.ObjectKey)
			}
			c.printf("Receipt: %s\n", result.Receipt)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "out", "o", service.ExportFileName, "file to write")
	cmd.AddCommand(c.exportVerifyCmd())

	return cmd
}

func (c *cli) exportVerifyCmd() *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "verify [file receipt]",
		Short: "Check an export against its receipt, locally or in export storage",
		Args: func(cmd *cobra.Command, args []string) error {
			if remote != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				claims token.ReceiptClaims
				err    error
			)
			if remote != "" {
				claims, err = c.app.exporter.VerifyUploaded(cmd.Context(), remote)
			} else {
				var document []byte
				if document, err = os.ReadFile(args[0]); err != nil {
					return fmt.Errorf("failed to read export: %w", err)
				}
				claims, err = c.app.exporter.Verify(document, args[1])
			}
			if err != nil {
				return err
			}

			c.printf("Receipt valid: export %s issued %s\n", claims.ID, claims.IssuedAt.Time.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "object key of an uploaded export")

	return cmd
}

func (c *cli) resetCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all progress and start over with a new device id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return fmt.Errorf("this deletes all your progress; re-run with --yes to confirm")
			}

			data, err := c.app.progress.ResetAllData(cmd.Context())
			if err != nil {
				return err
			}

			c.printf("All data reset. New device id %s\n", data.DeviceID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the reset")

	return cmd
}
