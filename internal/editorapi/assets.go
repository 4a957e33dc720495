package editorapi

// Asset URLs are plain concatenations of the base URL, a fixed prefix and the
// filename. No request is made and the filename is not escaped.

// VideoURL returns the address of an uploaded source video.
func (c *Client) VideoURL(filename string) string {
	return c.assetURL("videos", filename)
}

// WaveformURL returns the address of a rendered waveform image or data file.
func (c *Client) WaveformURL(filename string) string {
	return c.assetURL("waveforms", filename)
}

// RenderURL returns the address of a finished render's output file.
func (c *Client) RenderURL(filename string) string {
	return c.assetURL("renders", filename)
}

// ProxyURL returns the address of a low-resolution proxy used for playback.
func (c *Client) ProxyURL(filename string) string {
	return c.assetURL("proxies", filename)
}

func (c *Client) assetURL(kind, filename string) string {
	return c.baseURL + "/api/editor/" + kind + "/" + filename
}
