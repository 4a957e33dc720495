package editorapi

import "context"

// Health queries the backend's health report, including which optional
// subsystems (storage, queue) are configured.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.getJSON(ctx, OpHealth, "/api/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// QueueStatus queries the render queue. The backend answers 503 when its
// queue manager is not running, which surfaces as a *RequestError.
func (c *Client) QueueStatus(ctx context.Context) (*QueueStatusReport, error) {
	var report QueueStatusReport
	if err := c.getJSON(ctx, OpQueueStatus, "/api/queue/status", &report); err != nil {
		return nil, err
	}
	return &report, nil
}
