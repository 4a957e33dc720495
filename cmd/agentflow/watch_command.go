package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"agentflow/internal/editorapi"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch <project-id>",
		Short: "Stream live events for a project",
		Long: "Stream live events for a project until interrupted, until the backend " +
			"closes the channel, or until --count events have arrived. The channel " +
			"is not reopened after it closes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *editorapi.Client) error {
				runCtx, cancel := context.WithCancel(cmd.Context())
				defer cancel()

				out := cmd.OutOrStdout()
				asJSON := ctx.jsonOutput()
				id := editorapi.ProjectID(args[0])
				if !asJSON {
					fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s\n", client.WebSocketURL(id))
				}

				var mu sync.Mutex
				seen := 0
				sub := client.Connect(runCtx, id, func(event editorapi.Event) {
					mu.Lock()
					defer mu.Unlock()
					if count > 0 && seen >= count {
						return
					}
					writeEvent(out, event, asJSON)
					seen++
					if count > 0 && seen >= count {
						cancel()
					}
				})
				defer sub.Close()

				select {
				case <-sub.Done():
				case <-runCtx.Done():
					_ = sub.Close()
					<-sub.Done()
				}
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many events (0 streams until interrupted)")
	return cmd
}

func writeEvent(w io.Writer, event editorapi.Event, asJSON bool) {
	if asJSON {
		fmt.Fprintln(w, string(event.RawJSON()))
		return
	}
	parts := []string{"[" + orDash(event.Type) + "]"}
	if event.Type == "" {
		fmt.Fprintln(w, parts[0], string(event.RawJSON()))
		return
	}
	if event.RenderID != "" {
		parts = append(parts, "render="+string(event.RenderID))
	}
	if event.Status != "" {
		parts = append(parts, titleLabel(event.Status))
	}
	if event.Progress > 0 {
		parts = append(parts, formatProgress(event.Progress))
	}
	if event.Message != "" {
		parts = append(parts, event.Message)
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}
