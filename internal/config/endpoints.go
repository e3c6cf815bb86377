package config

import "strings"

var localHosts = []string{"localhost", "127.0.0.1"}

// Endpoints classifies the configured RPC URLs.
type Endpoints struct {
	URLs []string
}

// IsLocal reports whether any endpoint points at a local node.
func (e Endpoints) IsLocal() bool {
	for _, u := range e.URLs {
		u = strings.ToLower(u)
		for _, host := range localHosts {
			if strings.Contains(u, host) {
				return true
			}
		}
	}
	return false
}
