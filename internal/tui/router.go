package tui

import "strings"

// Screen is what a route resolves to.
type Screen int

const (
	ScreenIndex Screen = iota
	ScreenNotFound
)

// IndexPath is the only route with content.
const IndexPath = "/"

// Resolve maps a path to its screen. Anything but the index is not found.
func Resolve(path string) Screen {
	if path == "" || path == IndexPath {
		return ScreenIndex
	}
	return ScreenNotFound
}

// normalize trims the input of the go-to prompt.
func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return IndexPath
	}
	return path
}
