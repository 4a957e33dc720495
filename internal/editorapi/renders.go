package editorapi

import (
	"context"
	"net/http"
)

// StartRender queues a render of the project with the given settings. The
// returned job's ID is what GetRenderStatus polls.
func (c *Client) StartRender(ctx context.Context, id ProjectID, settings RenderSettings) (*RenderJob, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var job RenderJob
	if err := c.sendJSON(ctx, OpStartRender, http.MethodPost, projectPath(id)+"/render", settings, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetRenderStatus reports the progress of one render job.
func (c *Client) GetRenderStatus(ctx context.Context, renderID RenderID) (*RenderStatus, error) {
	if renderID == "" {
		return nil, ErrEmptyID
	}
	var status RenderStatus
	path := "/api/editor/renders/" + escapeID(string(renderID)) + "/status"
	if err := c.getJSON(ctx, OpGetRenderStatus, path, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListProjectRenders returns every render job of a project.
func (c *Client) ListProjectRenders(ctx context.Context, id ProjectID) (*RenderList, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var list RenderList
	if err := c.getJSON(ctx, OpListRenders, projectPath(id)+"/renders", &list); err != nil {
		return nil, err
	}
	return &list, nil
}
