package models

import (
	"io"
	"path"
	"strings"
)

// Avatar is an image the user uploads as their profile picture.
type Avatar struct {
	// Name is the original file name, used for its extension.
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Ext returns the extension of the original file name without the leading
// dot, lower-cased. It is empty when the name has none.
func (a Avatar) Ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(a.Name), "."))
}
