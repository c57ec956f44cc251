/*
DESCRIPTION
  vars.go parses configuration variables given on the command line.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/theremin/config"
)

// parseVars parses a comma separated list of Key=Value pairs into a map
// suitable for config.Update. Keys must name a config variable.
func parseVars(s string) (map[string]string, error) {
	vars := make(map[string]string)
	if strings.TrimSpace(s) == "" {
		return vars, nil
	}

	known := make(map[string]bool, len(config.Variables))
	for _, v := range config.Variables {
		known[v.Name] = true
	}

	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed variable %q, want Key=Value", kv)
		}
		if !known[k] {
			return nil, fmt.Errorf("unknown variable %q", k)
		}
		vars[k] = strings.TrimSpace(v)
	}
	return vars, nil
}

// flagVars returns the config variables set by the dedicated command line
// flags. Unset flags are omitted so that they do not override -vars.
func flagVars(mode, input string, camera int, record string) map[string]string {
	vars := make(map[string]string)
	if mode != "" {
		vars[config.KeyMode] = mode
	}
	if input != "" {
		vars[config.KeyInputPath] = input
	}
	if camera >= 0 {
		vars[config.KeyCameraIndex] = strconv.Itoa(camera)
	}
	if record != "" {
		vars[config.KeyRecordPath] = record
	}
	return vars
}

// merge returns the union of a and b, preferring b.
func merge(a, b map[string]string) map[string]string {
	m := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		m[k] = v
	}
	for k, v := range b {
		m[k] = v
	}
	return m
}
