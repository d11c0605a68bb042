package main

import (
	"encoding/json"
	"fmt"
	"io"
)

func printJSON(w io.Writer, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
