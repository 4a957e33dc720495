package editorapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ProjectID identifies a project. The backend may emit it as a JSON string or
// number; both decode to the same textual form.
type ProjectID string

func (id *ProjectID) UnmarshalJSON(data []byte) error {
	value, err := decodeIdentifier(data)
	if err != nil {
		return err
	}
	*id = ProjectID(value)
	return nil
}

// RenderID identifies a render job.
type RenderID string

func (id *RenderID) UnmarshalJSON(data []byte) error {
	value, err := decodeIdentifier(data)
	if err != nil {
		return err
	}
	*id = RenderID(value)
	return nil
}

func decodeIdentifier(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("identifier must be a string or number: %w", err)
	}
	return n.String(), nil
}

// Project is a single editor project.
type Project struct {
	ID               ProjectID       `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Status           string          `json:"status,omitempty"`
	VideoFilename    string          `json:"video_filename,omitempty"`
	ProxyFilename    string          `json:"proxy_filename,omitempty"`
	WaveformFilename string          `json:"waveform_filename,omitempty"`
	Duration         float64         `json:"duration,omitempty"`
	Width            int             `json:"width,omitempty"`
	Height           int             `json:"height,omitempty"`
	FPS              float64         `json:"fps,omitempty"`
	Timeline         json.RawMessage `json:"timeline,omitempty"`
	CreatedAt        string          `json:"created_at,omitempty"`
	UpdatedAt        string          `json:"updated_at,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	return unmarshalKeepingRaw(data, (*plain)(p), &p.Raw)
}

// RawJSON returns the payload exactly as the backend sent it.
func (p Project) RawJSON() json.RawMessage { return p.Raw }

// ProjectList holds the list-projects payload. The backend may answer with a
// bare array or with {"projects": [...]}.
type ProjectList struct {
	Projects []Project `json:"projects"`

	Raw json.RawMessage `json:"-"`
}

func (l *ProjectList) UnmarshalJSON(data []byte) error {
	projects, err := decodeCollection[Project](data, "projects")
	if err != nil {
		return err
	}
	l.Projects = projects
	l.Raw = cloneRaw(data)
	return nil
}

func (l ProjectList) RawJSON() json.RawMessage { return l.Raw }

// NewProject carries the multipart fields for CreateProject. Video is streamed
// as the video_file part under VideoName.
type NewProject struct {
	Name        string
	Description string
	VideoName   string
	Video       io.Reader
}

// ProjectUpdate is a partial update; nil fields are left out of the request.
type ProjectUpdate struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Status      *string         `json:"status,omitempty"`
	Timeline    json.RawMessage `json:"timeline,omitempty"`
}

// DeleteResult is the backend's acknowledgement of a delete. Its shape is not
// fixed; Raw always carries the full body.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (d *DeleteResult) UnmarshalJSON(data []byte) error {
	type plain DeleteResult
	return unmarshalKeepingRaw(data, (*plain)(d), &d.Raw)
}

func (d DeleteResult) RawJSON() json.RawMessage { return d.Raw }

// Waveform is the audio peak metadata the editor draws under the timeline.
type Waveform struct {
	ProjectID  ProjectID `json:"project_id,omitempty"`
	Filename   string    `json:"filename,omitempty"`
	SampleRate int       `json:"sample_rate,omitempty"`
	Duration   float64   `json:"duration,omitempty"`
	Channels   int       `json:"channels,omitempty"`
	Peaks      []float64 `json:"peaks,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (w *Waveform) UnmarshalJSON(data []byte) error {
	type plain Waveform
	return unmarshalKeepingRaw(data, (*plain)(w), &w.Raw)
}

func (w Waveform) RawJSON() json.RawMessage { return w.Raw }

// RenderSettings is posted as JSON to start a render. Zero fields are omitted
// so the backend applies its own defaults.
type RenderSettings struct {
	Format     string   `json:"format,omitempty"`
	Codec      string   `json:"codec,omitempty"`
	Resolution string   `json:"resolution,omitempty"`
	Quality    string   `json:"quality,omitempty"`
	Bitrate    string   `json:"bitrate,omitempty"`
	FPS        float64  `json:"fps,omitempty"`
	StartTime  *float64 `json:"start_time,omitempty"`
	EndTime    *float64 `json:"end_time,omitempty"`
}

// RenderState is the backend's progress enumeration for a render job.
type RenderState string

const (
	RenderPending    RenderState = "pending"
	RenderQueued     RenderState = "queued"
	RenderProcessing RenderState = "processing"
	RenderCompleted  RenderState = "completed"
	RenderFailed     RenderState = "failed"
	RenderCancelled  RenderState = "cancelled"
)

// Terminal reports whether no further progress is expected.
func (s RenderState) Terminal() bool {
	switch s {
	case RenderCompleted, RenderFailed, RenderCancelled:
		return true
	default:
		return false
	}
}

// RenderJob describes a render job as returned by StartRender and
// ListProjectRenders. ID is filled from "id" or, failing that, "render_id".
type RenderJob struct {
	ID             RenderID        `json:"id"`
	ProjectID      ProjectID       `json:"project_id,omitempty"`
	Status         RenderState     `json:"status,omitempty"`
	Progress       float64         `json:"progress,omitempty"`
	OutputFilename string          `json:"output_filename,omitempty"`
	Settings       *RenderSettings `json:"settings,omitempty"`
	Error          string          `json:"error,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
	CompletedAt    string          `json:"completed_at,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (j *RenderJob) UnmarshalJSON(data []byte) error {
	type plain RenderJob
	if err := unmarshalKeepingRaw(data, (*plain)(j), &j.Raw); err != nil {
		return err
	}
	if j.ID == "" {
		j.ID = alternateRenderID(data)
	}
	return nil
}

func (j RenderJob) RawJSON() json.RawMessage { return j.Raw }

// RenderList holds every render job for a project, from a bare array or
// {"renders": [...]}.
type RenderList struct {
	Renders []RenderJob `json:"renders"`

	Raw json.RawMessage `json:"-"`
}

func (l *RenderList) UnmarshalJSON(data []byte) error {
	renders, err := decodeCollection[RenderJob](data, "renders")
	if err != nil {
		return err
	}
	l.Renders = renders
	l.Raw = cloneRaw(data)
	return nil
}

func (l RenderList) RawJSON() json.RawMessage { return l.Raw }

// RenderStatus is the polling view of a render job.
type RenderStatus struct {
	ID             RenderID    `json:"id"`
	Status         RenderState `json:"status"`
	Progress       float64     `json:"progress"`
	OutputFilename string      `json:"output_filename,omitempty"`
	Message        string      `json:"message,omitempty"`
	Error          string      `json:"error,omitempty"`
	UpdatedAt      string      `json:"updated_at,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (s *RenderStatus) UnmarshalJSON(data []byte) error {
	type plain RenderStatus
	if err := unmarshalKeepingRaw(data, (*plain)(s), &s.Raw); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = alternateRenderID(data)
	}
	return nil
}

func (s RenderStatus) RawJSON() json.RawMessage { return s.Raw }

// HealthFeatures lists which backend subsystems are wired up.
type HealthFeatures struct {
	Database bool `json:"database"`
	Storage  bool `json:"storage"`
	Queue    bool `json:"queue"`
	CORS     bool `json:"cors"`
}

// Health is the backend's /api/health report.
type Health struct {
	Success   bool           `json:"success"`
	Status    string         `json:"status"`
	Service   string         `json:"service,omitempty"`
	Version   string         `json:"version,omitempty"`
	Features  HealthFeatures `json:"features"`
	QueueInfo map[string]any `json:"queue_info,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (h *Health) UnmarshalJSON(data []byte) error {
	type plain Health
	return unmarshalKeepingRaw(data, (*plain)(h), &h.Raw)
}

func (h Health) RawJSON() json.RawMessage { return h.Raw }

// QueueStatusReport is the backend's /api/queue/status report.
type QueueStatusReport struct {
	Success   bool           `json:"success"`
	QueueInfo map[string]any `json:"queue_info,omitempty"`
	Error     string         `json:"error,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (q *QueueStatusReport) UnmarshalJSON(data []byte) error {
	type plain QueueStatusReport
	return unmarshalKeepingRaw(data, (*plain)(q), &q.Raw)
}

func (q QueueStatusReport) RawJSON() json.RawMessage { return q.Raw }

// Event is one message pushed over the real-time channel.
type Event struct {
	Type      string          `json:"type"`
	ProjectID ProjectID       `json:"project_id,omitempty"`
	RenderID  RenderID        `json:"render_id,omitempty"`
	Status    string          `json:"status,omitempty"`
	Progress  float64         `json:"progress,omitempty"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	return unmarshalKeepingRaw(data, (*plain)(e), &e.Raw)
}

func (e Event) RawJSON() json.RawMessage { return e.Raw }

// unmarshalKeepingRaw records data as raw and fills dst from it best-effort.
// Only a document that is not valid JSON is an error; any other shape yields
// a value whose typed fields are left zero where they do not fit.
func unmarshalKeepingRaw(data []byte, dst any, raw *json.RawMessage) error {
	if !json.Valid(data) {
		return json.Unmarshal(data, new(any))
	}
	*raw = cloneRaw(data)
	decodeFields(data, dst)
	return nil
}

func cloneRaw(data []byte) json.RawMessage {
	if data == nil {
		return nil
	}
	return append(json.RawMessage(nil), data...)
}

// decodeCollection reads a bare array or the array under key in an envelope.
// Any other valid document yields no items.
func decodeCollection[T any](data []byte, key string) ([]T, error) {
	if !json.Valid(data) {
		return nil, json.Unmarshal(data, new(any))
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, nil
		}
		inner, ok := envelope[key]
		if !ok {
			return nil, nil
		}
		trimmed = bytes.TrimSpace(inner)
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, nil
	}
	items := make([]T, 0, len(elements))
	for _, element := range elements {
		var item T
		if err := json.Unmarshal(element, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func alternateRenderID(data []byte) RenderID {
	var alt struct {
		RenderID RenderID `json:"render_id"`
	}
	decodeFields(data, &alt)
	return alt.RenderID
}
