// Package editorapi is the client for the video editor backend.
//
// It wraps the editor's REST surface (projects, waveforms, render jobs, the
// health and queue probes) and its per-project WebSocket event channel. Each
// method issues exactly one HTTP request against the immutable base URL and
// decodes the JSON body into a declared payload type; the verbatim body is
// kept on every payload so callers can reach fields the type does not model.
//
// Failures come in two shapes. A response outside 2xx becomes a
// *RequestError whose message is fixed per operation ("Failed to fetch
// projects") and which matches ErrRequestFailed. Transport and JSON decoding
// errors are returned exactly as the standard library produced them.
//
// Connect hands back a Subscription in the connecting state; the caller owns
// it and must Close it. Connection problems are logged, never returned, and
// the client never reconnects on its own.
package editorapi
