package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"agentflow/internal/editorapi"
)

func newURLCommand(ctx *commandContext) *cobra.Command {
	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print asset URLs without contacting the backend",
	}

	kinds := []struct {
		name  string
		short string
		build func(*editorapi.Client, string) string
	}{
		{"video", "URL of an uploaded source video", (*editorapi.Client).VideoURL},
		{"waveform", "URL of a waveform image", (*editorapi.Client).WaveformURL},
		{"render", "URL of a finished render", (*editorapi.Client).RenderURL},
		{"proxy", "URL of a preview proxy", (*editorapi.Client).ProxyURL},
	}
	for _, kind := range kinds {
		urlCmd.AddCommand(&cobra.Command{
			Use:   kind.name + " <filename>",
			Short: kind.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := ctx.apiClient()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), kind.build(client, args[0]))
				return nil
			},
		})
	}

	return urlCmd
}
