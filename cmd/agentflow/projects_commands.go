package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"agentflow/internal/editorapi"
	"agentflow/internal/logging"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Create, inspect and manage editor projects",
	}

	projectsCmd.AddCommand(newProjectsListCommand(ctx))
	projectsCmd.AddCommand(newProjectsShowCommand(ctx))
	projectsCmd.AddCommand(newProjectsCreateCommand(ctx))
	projectsCmd.AddCommand(newProjectsUpdateCommand(ctx))
	projectsCmd.AddCommand(newProjectsDeleteCommand(ctx))

	return projectsCmd
}

func newProjectsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *editorapi.Client) error {
				list, err := client.ListProjects(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writePayload(cmd, list)
				}
				if len(list.Projects) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No projects")
					return nil
				}
				rows := make([][]string, 0, len(list.Projects))
				for _, p := range list.Projects {
					rows = append(rows, []string{
						string(p.ID),
						p.Name,
						titleLabel(p.Status),
						formatSeconds(p.Duration),
						orDash(p.UpdatedAt),
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Status", "Duration", "Updated"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

type projectOverview struct {
	Project  *editorapi.Project    `json:"project"`
	Waveform *editorapi.Waveform   `json:"waveform,omitempty"`
	Renders  *editorapi.RenderList `json:"renders,omitempty"`
}

func newProjectsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its waveform and renders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := editorapi.ProjectID(args[0])
			return ctx.withClient(func(client *editorapi.Client) error {
				overview, err := fetchProjectOverview(cmd, ctx, client, id)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, overviewJSON(overview))
				}
				fmt.Fprint(cmd.OutOrStdout(), renderProjectOverview(client, overview))
				return nil
			})
		},
	}
}

// fetchProjectOverview loads the project, its waveform and its renders in
// parallel. A missing waveform or render list is not an error; the project
// itself is required.
func fetchProjectOverview(cmd *cobra.Command, ctx *commandContext, client *editorapi.Client, id editorapi.ProjectID) (projectOverview, error) {
	var overview projectOverview
	g, gctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		project, err := client.GetProject(gctx, id)
		if err != nil {
			return err
		}
		overview.Project = project
		return nil
	})
	g.Go(func() error {
		waveform, err := client.GetWaveform(gctx, id)
		if err != nil {
			if editorapi.IsNotFound(err) {
				return nil
			}
			return optionalFetch(ctx, "waveform", id, err)
		}
		overview.Waveform = waveform
		return nil
	})
	g.Go(func() error {
		renders, err := client.ListProjectRenders(gctx, id)
		if err != nil {
			if editorapi.IsNotFound(err) {
				return nil
			}
			return optionalFetch(ctx, "renders", id, err)
		}
		overview.Renders = renders
		return nil
	})

	if err := g.Wait(); err != nil {
		return projectOverview{}, err
	}
	return overview, nil
}

// optionalFetch downgrades backend failures of secondary lookups to a warning.
// Transport and decode failures still abort the command.
func optionalFetch(ctx *commandContext, what string, id editorapi.ProjectID, err error) error {
	if !errors.Is(err, editorapi.ErrRequestFailed) {
		return err
	}
	if ctx.logger != nil {
		ctx.logger.Warn("project detail unavailable",
			logging.String("detail", what),
			logging.String(logging.FieldProjectID, string(id)),
			logging.Int("status", editorapi.StatusCode(err)),
			logging.String(logging.FieldErrorHint, "the backend may still be processing the upload"),
		)
	}
	return nil
}

func overviewJSON(o projectOverview) map[string]json.RawMessage {
	out := map[string]json.RawMessage{"project": o.Project.RawJSON()}
	if o.Waveform != nil {
		out["waveform"] = o.Waveform.RawJSON()
	}
	if o.Renders != nil {
		out["renders"] = o.Renders.RawJSON()
	}
	for key, value := range out {
		if len(value) == 0 {
			out[key] = json.RawMessage("null")
		}
	}
	return out
}

func renderProjectOverview(client *editorapi.Client, o projectOverview) string {
	p := o.Project
	pairs := [][2]string{
		{"ID", string(p.ID)},
		{"Name", p.Name},
		{"Description", orDash(p.Description)},
		{"Status", titleLabel(p.Status)},
		{"Duration", formatSeconds(p.Duration)},
	}
	if p.Width > 0 && p.Height > 0 {
		pairs = append(pairs, [2]string{"Resolution", fmt.Sprintf("%dx%d", p.Width, p.Height)})
	}
	if p.FPS > 0 {
		pairs = append(pairs, [2]string{"FPS", strconv.FormatFloat(p.FPS, 'f', -1, 64)})
	}
	if p.VideoFilename != "" {
		pairs = append(pairs, [2]string{"Video", client.VideoURL(p.VideoFilename)})
	}
	if p.ProxyFilename != "" {
		pairs = append(pairs, [2]string{"Proxy", client.ProxyURL(p.ProxyFilename)})
	}
	if o.Waveform != nil {
		pairs = append(pairs, [2]string{"Waveform", fmt.Sprintf("%d peaks, %d channel(s)", len(o.Waveform.Peaks), o.Waveform.Channels)})
	}

	var b strings.Builder
	b.WriteString(renderDetails(pairs))
	if o.Renders != nil && len(o.Renders.Renders) > 0 {
		b.WriteString("\nRenders\n")
		b.WriteString(renderRenderJobs(o.Renders.Renders))
	}
	return b.String()
}

func newProjectsCreateCommand(ctx *commandContext) *cobra.Command {
	var name, description, videoPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project by uploading a video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(videoPath) == "" {
				return errors.New("--video is required")
			}
			file, err := os.Open(videoPath)
			if err != nil {
				return fmt.Errorf("open video: %w", err)
			}
			defer file.Close()

			if strings.TrimSpace(name) == "" {
				name = strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
			}

			return ctx.withClient(func(client *editorapi.Client) error {
				project, err := client.CreateProject(cmd.Context(), editorapi.NewProject{
					Name:        name,
					Description: description,
					VideoName:   videoPath,
					Video:       file,
				})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writePayload(cmd, project)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", project.ID, project.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (defaults to the video file name)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	cmd.Flags().StringVar(&videoPath, "video", "", "Video file to upload")
	return cmd
}

func newProjectsUpdateCommand(ctx *commandContext) *cobra.Command {
	var name, description, status, timeline string

	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update editorapi.ProjectUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				update.Name = &name
			}
			if flags.Changed("description") {
				update.Description = &description
			}
			if flags.Changed("status") {
				update.Status = &status
			}
			if flags.Changed("timeline") {
				raw, err := readTimeline(timeline)
				if err != nil {
					return err
				}
				update.Timeline = raw
			}
			if update.Name == nil && update.Description == nil && update.Status == nil && update.Timeline == nil {
				return errors.New("nothing to update; pass --name, --description, --status or --timeline")
			}

			return ctx.withClient(func(client *editorapi.Client) error {
				project, err := client.UpdateProject(cmd.Context(), editorapi.ProjectID(args[0]), update)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writePayload(cmd, project)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", project.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New project name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&status, "status", "", "New status")
	cmd.Flags().StringVar(&timeline, "timeline", "", "Timeline JSON, or @path to read it from a file")
	return cmd
}

// readTimeline accepts inline JSON or @file.
func readTimeline(value string) (json.RawMessage, error) {
	data := []byte(value)
	if path, ok := strings.CutPrefix(value, "@"); ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read timeline: %w", err)
		}
		data = content
	}
	if !json.Valid(data) {
		return nil, errors.New("timeline is not valid JSON")
	}
	return json.RawMessage(data), nil
}

func newProjectsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *editorapi.Client) error {
				result, err := client.DeleteProject(cmd.Context(), editorapi.ProjectID(args[0]))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writePayload(cmd, result)
				}
				if msg := strings.TrimSpace(result.Message); msg != "" {
					fmt.Fprintln(cmd.OutOrStdout(), msg)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
				return nil
			})
		},
	}
}

func newWaveformCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "waveform <project-id>",
		Short: "Show waveform metadata for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *editorapi.Client) error {
				waveform, err := client.GetWaveform(cmd.Context(), editorapi.ProjectID(args[0]))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writePayload(cmd, waveform)
				}
				pairs := [][2]string{
					{"File", orDash(waveform.Filename)},
					{"Sample rate", strconv.Itoa(waveform.SampleRate)},
					{"Channels", strconv.Itoa(waveform.Channels)},
					{"Duration", formatSeconds(waveform.Duration)},
					{"Peaks", strconv.Itoa(len(waveform.Peaks))},
				}
				if waveform.Filename != "" {
					pairs = append(pairs, [2]string{"URL", client.WaveformURL(waveform.Filename)})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderDetails(pairs))
				return nil
			})
		},
	}
}
