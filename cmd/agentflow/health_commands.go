package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"agentflow/internal/editorapi"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *editorapi.Client) error {
				health, err := client.Health(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writePayload(cmd, health)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				service := health.Service
				if service == "" {
					service = "Backend"
				}
				kind := statusOK
				if !health.Success || health.Status != "healthy" {
					kind = statusError
				}
				message := titleLabel(health.Status)
				if health.Version != "" {
					message += " (v" + health.Version + ")"
				}
				fmt.Fprintln(out, renderStatusLine(service, kind, message, colorize))
				fmt.Fprintln(out, renderStatusLine("Database", featureKind(health.Features.Database), yesNo(health.Features.Database), colorize))
				fmt.Fprintln(out, renderStatusLine("Storage", featureKind(health.Features.Storage), yesNo(health.Features.Storage), colorize))
				fmt.Fprintln(out, renderStatusLine("Queue", featureKind(health.Features.Queue), yesNo(health.Features.Queue), colorize))
				fmt.Fprintln(out, renderStatusLine("CORS", featureKind(health.Features.CORS), yesNo(health.Features.CORS), colorize))
				return nil
			})
		},
	}
}

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the backend job queue",
	}
	queueCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show queue statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *editorapi.Client) error {
				report, err := client.QueueStatus(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writePayload(cmd, report)
				}
				rows := buildQueueInfoRows(report.QueueInfo)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	})
	return queueCmd
}

func buildQueueInfoRows(info map[string]any) [][]string {
	keys := make([]string, 0, len(info))
	for key := range info {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{titleLabel(key), formatQueueValue(info[key])})
	}
	return rows
}

func formatQueueValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case float64:
		return fmt.Sprintf("%g", v)
	case bool:
		return yesNo(v)
	default:
		return fmt.Sprint(v)
	}
}
