package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// parseCallArgs turns trailing command arguments into call arguments. A
// single JSON object or array is decoded as is; anything else becomes a
// positional list of literals.
func parseCallArgs(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if len(raw) == 1 {
		s := strings.TrimSpace(raw[0])
		if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
			dec := json.NewDecoder(bytes.NewReader([]byte(s)))
			dec.UseNumber()
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("invalid JSON arguments: %w", err)
			}
			return v, nil
		}
	}
	args := make([]any, len(raw))
	for i, a := range raw {
		args[i] = a
	}
	return args, nil
}
