package model

import "strings"

// Header is an HTTP-style header stored with an asset.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Asset is a stored payload with its response headers.
type Asset struct {
	Headers []Header `json:"headers"`
	Body    []byte   `json:"-"`
}

// KeyedAsset pairs an asset with its storage key.
type KeyedAsset struct {
	Key   string
	Asset Asset
}

// Header returns the first header value matching name, case-insensitively.
func (a Asset) Header(name string) string {
	for _, h := range a.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
