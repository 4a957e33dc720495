package editorapi

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

const projectsPath = "/api/editor/projects"

func projectPath(id ProjectID) string {
	return projectsPath + "/" + escapeID(string(id))
}

// ListProjects returns every project.
func (c *Client) ListProjects(ctx context.Context) (*ProjectList, error) {
	var list ProjectList
	if err := c.getJSON(ctx, OpListProjects, projectsPath, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetProject fetches a single project.
func (c *Client) GetProject(ctx context.Context, id ProjectID) (*Project, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var project Project
	if err := c.getJSON(ctx, OpGetProject, projectPath(id), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject uploads a new project as multipart/form-data with the fields
// name, description and video_file. The video is streamed, not buffered.
func (c *Client) CreateProject(ctx context.Context, p NewProject) (*Project, error) {
	if p.Video == nil {
		return nil, ErrNilVideo
	}

	pr, pw := io.Pipe()
	// Closing the read side unblocks the writer if the request never drains the body.
	defer pr.Close()

	form := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeProjectForm(form, p))
	}()

	var project Project
	if err := c.do(ctx, OpCreateProject, http.MethodPost, projectsPath, pr, form.FormDataContentType(), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func writeProjectForm(form *multipart.Writer, p NewProject) error {
	if err := form.WriteField("name", p.Name); err != nil {
		return err
	}
	if err := form.WriteField("description", p.Description); err != nil {
		return err
	}
	part, err := form.CreateFormFile("video_file", uploadName(p.VideoName))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, p.Video); err != nil {
		return err
	}
	return form.Close()
}

func uploadName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "video"
	}
	return filepath.Base(name)
}

// UpdateProject applies a partial update.
func (c *Client) UpdateProject(ctx context.Context, id ProjectID, update ProjectUpdate) (*Project, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var project Project
	if err := c.sendJSON(ctx, OpUpdateProject, http.MethodPut, projectPath(id), update, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project and returns the backend's acknowledgement.
func (c *Client) DeleteProject(ctx context.Context, id ProjectID) (*DeleteResult, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var result DeleteResult
	if err := c.do(ctx, OpDeleteProject, http.MethodDelete, projectPath(id), nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetWaveform fetches the waveform metadata for a project.
func (c *Client) GetWaveform(ctx context.Context, id ProjectID) (*Waveform, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var waveform Waveform
	if err := c.getJSON(ctx, OpGetWaveform, projectPath(id)+"/waveform", &waveform); err != nil {
		return nil, err
	}
	return &waveform, nil
}
