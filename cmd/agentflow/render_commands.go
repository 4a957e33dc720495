package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"agentflow/internal/editorapi"
	"agentflow/internal/logging"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	renderCmd := &cobra.Command{
		Use:     "render",
		Aliases: []string{"renders"},
		Short:   "Start and track render jobs",
	}

	renderCmd.AddCommand(newRenderStartCommand(ctx))
	renderCmd.AddCommand(newRenderStatusCommand(ctx))
	renderCmd.AddCommand(newRenderListCommand(ctx))
	renderCmd.AddCommand(newRenderWaitCommand(ctx))

	return renderCmd
}

func newRenderStartCommand(ctx *commandContext) *cobra.Command {
	var settings editorapi.RenderSettings
	var start, end float64
	var wait bool

	cmd := &cobra.Command{
		Use:   "start <project-id>",
		Short: "Queue a render for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				settings.Format = cfg.Render.Format
			}
			if !cmd.Flags().Changed("resolution") {
				settings.Resolution = cfg.Render.Resolution
			}
			if cmd.Flags().Changed("start") {
				settings.StartTime = &start
			}
			if cmd.Flags().Changed("end") {
				settings.EndTime = &end
			}
			if settings.StartTime != nil && settings.EndTime != nil && *settings.EndTime <= *settings.StartTime {
				return errors.New("--end must be after --start")
			}

			return ctx.withClient(func(client *editorapi.Client) error {
				job, err := client.StartRender(cmd.Context(), editorapi.ProjectID(args[0]), settings)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() && !wait {
					return writePayload(cmd, job)
				}
				if !ctx.jsonOutput() {
					fmt.Fprintf(cmd.OutOrStdout(), "Render %s queued (%s)\n", job.ID, titleLabel(string(job.Status)))
				}
				if !wait {
					return nil
				}
				return waitForRender(cmd, ctx, client, job.ID, pollInterval(cfg.Render.PollIntervalSeconds), 0)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&settings.Format, "format", "", "Container format (defaults to render.format)")
	flags.StringVar(&settings.Resolution, "resolution", "", "Output resolution WIDTHxHEIGHT (defaults to render.resolution)")
	flags.StringVar(&settings.Codec, "codec", "", "Video codec")
	flags.StringVar(&settings.Quality, "quality", "", "Quality preset")
	flags.StringVar(&settings.Bitrate, "bitrate", "", "Target bitrate, e.g. 8M")
	flags.Float64Var(&settings.FPS, "fps", 0, "Output frame rate")
	flags.Float64Var(&start, "start", 0, "Start of the rendered range in seconds")
	flags.Float64Var(&end, "end", 0, "End of the rendered range in seconds")
	flags.BoolVar(&wait, "wait", false, "Wait for the render to finish")
	return cmd
}

func newRenderStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <render-id>",
		Short: "Show render job status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *editorapi.Client) error {
				status, err := client.GetRenderStatus(cmd.Context(), editorapi.RenderID(args[0]))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writePayload(cmd, status)
				}
				fmt.Fprint(cmd.OutOrStdout(), renderStatusDetails(client, status))
				return nil
			})
		},
	}
}

func renderStatusDetails(client *editorapi.Client, status *editorapi.RenderStatus) string {
	pairs := [][2]string{
		{"Render", string(status.ID)},
		{"Status", titleLabel(string(status.Status))},
		{"Progress", formatProgress(status.Progress)},
	}
	if status.Message != "" {
		pairs = append(pairs, [2]string{"Message", status.Message})
	}
	if status.Error != "" {
		pairs = append(pairs, [2]string{"Error", status.Error})
	}
	if status.OutputFilename != "" {
		pairs = append(pairs, [2]string{"Output", client.RenderURL(status.OutputFilename)})
	}
	return renderDetails(pairs)
}

func newRenderListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List renders for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *editorapi.Client) error {
				list, err := client.ListProjectRenders(cmd.Context(), editorapi.ProjectID(args[0]))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writePayload(cmd, list)
				}
				if len(list.Renders) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No renders")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderRenderJobs(list.Renders))
				return nil
			})
		},
	}
}

func renderRenderJobs(jobs []editorapi.RenderJob) string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		format := "-"
		if job.Settings != nil {
			format = orDash(job.Settings.Format)
		}
		rows = append(rows, []string{
			string(job.ID),
			titleLabel(string(job.Status)),
			formatProgress(job.Progress),
			format,
			orDash(job.OutputFilename),
		})
	}
	return renderTable(
		[]string{"Render", "Status", "Progress", "Format", "Output"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

func newRenderWaitCommand(ctx *commandContext) *cobra.Command {
	var interval, timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait <render-id>",
		Short: "Poll a render until it completes or fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = pollInterval(cfg.Render.PollIntervalSeconds)
			}
			return ctx.withClient(func(client *editorapi.Client) error {
				return waitForRender(cmd, ctx, client, editorapi.RenderID(args[0]), interval, timeout)
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Polling interval (defaults to render.poll_interval_seconds)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits forever)")
	return cmd
}

func pollInterval(seconds int) time.Duration {
	if seconds <= 0 {
		seconds = 2
	}
	return time.Duration(seconds) * time.Second
}

// waitForRender polls until the job reaches a terminal state. Progress lines
// are printed only when the state or percentage changes.
func waitForRender(cmd *cobra.Command, ctx *commandContext, client *editorapi.Client, id editorapi.RenderID, interval, timeout time.Duration) error {
	runCtx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	out := cmd.OutOrStdout()
	sampler := logging.NewProgressSampler(10)
	var last string
	for {
		status, err := client.GetRenderStatus(runCtx, id)
		if err != nil {
			if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("render %s did not finish within %s", id, timeout)
			}
			return err
		}
		if ctx.logger != nil && sampler.ShouldLog(status.Progress, string(status.Status)) {
			ctx.logger.Info("render progress",
				logging.String(logging.FieldRenderID, string(id)),
				logging.String("status", string(status.Status)),
				logging.Float64("progress", status.Progress),
			)
		}

		line := fmt.Sprintf("%s %s", titleLabel(string(status.Status)), formatProgress(status.Progress))
		if line != last && !ctx.jsonOutput() {
			fmt.Fprintf(out, "Render %s: %s\n", id, line)
			last = line
		}

		if status.Status.Terminal() {
			if ctx.jsonOutput() {
				if err := writePayload(cmd, status); err != nil {
					return err
				}
			} else if status.OutputFilename != "" && status.Status == editorapi.RenderCompleted {
				fmt.Fprintf(out, "Output: %s\n", client.RenderURL(status.OutputFilename))
			}
			if status.Status != editorapi.RenderCompleted {
				reason := status.Error
				if reason == "" {
					reason = status.Message
				}
				if reason == "" {
					return fmt.Errorf("render %s %s", id, status.Status)
				}
				return fmt.Errorf("render %s %s: %s", id, status.Status, reason)
			}
			return nil
		}

		select {
		case <-runCtx.Done():
			if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("render %s did not finish within %s", id, timeout)
			}
			return runCtx.Err()
		case <-ticker.C:
		}
	}
}
