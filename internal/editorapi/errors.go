package editorapi

import (
	"errors"
	"net/http"
)

var (
	// ErrRequestFailed matches every *RequestError.
	ErrRequestFailed = errors.New("editor api request failed")
	// ErrEmptyID is returned before any request is made when an identifier is blank.
	ErrEmptyID = errors.New("identifier must not be empty")
	// ErrNilVideo is returned by CreateProject when no video content is supplied.
	ErrNilVideo = errors.New("video content required")
	// ErrNotConnected is returned by Subscription.Send before the socket is open or after Close.
	ErrNotConnected = errors.New("websocket not connected")
)

// Operation names a single client call. Its failure message is stable and is
// what callers see when the backend rejects the request.
type Operation string

const (
	OpListProjects    Operation = "list_projects"
	OpGetProject      Operation = "get_project"
	OpCreateProject   Operation = "create_project"
	OpUpdateProject   Operation = "update_project"
	OpDeleteProject   Operation = "delete_project"
	OpGetWaveform     Operation = "get_waveform"
	OpStartRender     Operation = "start_render"
	OpGetRenderStatus Operation = "get_render_status"
	OpListRenders     Operation = "list_project_renders"
	OpHealth          Operation = "health"
	OpQueueStatus     Operation = "queue_status"
)

var failureMessages = map[Operation]string{
	OpListProjects:    "Failed to fetch projects",
	OpGetProject:      "Failed to fetch project",
	OpCreateProject:   "Failed to create project",
	OpUpdateProject:   "Failed to update project",
	OpDeleteProject:   "Failed to delete project",
	OpGetWaveform:     "Failed to fetch waveform",
	OpStartRender:     "Failed to start render",
	OpGetRenderStatus: "Failed to fetch render status",
	OpListRenders:     "Failed to fetch project renders",
	OpHealth:          "Failed to fetch health",
	OpQueueStatus:     "Failed to fetch queue status",
}

// FailureMessage returns the fixed, human-readable message for op.
func (op Operation) FailureMessage() string {
	if msg, ok := failureMessages[op]; ok {
		return msg
	}
	return "Editor API request failed"
}

// RequestError reports a response outside the 2xx range. The response body is
// never decoded or retained.
type RequestError struct {
	Op         Operation
	StatusCode int
}

func (e *RequestError) Error() string {
	return e.Op.FailureMessage()
}

func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}

// StatusText is the canonical text for the status code, for diagnostics.
func (e *RequestError) StatusText() string {
	return http.StatusText(e.StatusCode)
}

// StatusCode extracts the HTTP status from a *RequestError anywhere in err's
// chain. It returns 0 when err is not a request failure.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a request failure carrying 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
