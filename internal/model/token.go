package model

import "github.com/holiman/uint256"

// FormatTokenID renders a token id in base 10.
func FormatTokenID(id uint256.Int) string {
	return id.ToBig().String()
}

// AssetKey builds the storage key for a token asset. An empty extension
// addresses the metadata document.
func AssetKey(id uint256.Int, ext string) string {
	if ext == "" {
		return FormatTokenID(id)
	}
	return FormatTokenID(id) + "." + ext
}

// AssetKeys returns the metadata, SVG and PNG keys of a token.
func AssetKeys(id uint256.Int) []string {
	return []string{
		AssetKey(id, ""),
		AssetKey(id, "svg"),
		AssetKey(id, "png"),
	}
}
