package main

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type rawPayload interface {
	RawJSON() json.RawMessage
}

// writePayload prints the backend body unchanged apart from indentation, so
// fields the client does not model still reach the user.
func writePayload(cmd *cobra.Command, v rawPayload) error {
	raw := v.RawJSON()
	if len(raw) == 0 {
		return writeJSON(cmd, v)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return writeJSON(cmd, v)
	}
	buf.WriteByte('\n')
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
