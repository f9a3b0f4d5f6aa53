package cmd

import (
	"fmt"
	"strings"
)

// parseState parses comma-separated key=value pairs into the extra state
// entries of the session export
func parseState(definitions []string) (map[string]string, error) {
	state := map[string]string{}
	for _, definition := range definitions {
		for _, pair := range strings.Split(definition, ",") {
			if pair == "" {
				continue
			}
			fields := strings.SplitN(pair, "=", 2)
			if len(fields) != 2 || fields[0] == "" {
				return nil, fmt.Errorf("invalid state value %s: should consist of comma-separated key=value pairs", pair)
			}
			state[fields[0]] = fields[1]
		}
	}
	return state, nil
}
