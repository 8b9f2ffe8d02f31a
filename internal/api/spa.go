package api

import (
	"net/http"
	"os"
)

// spaFileSystem implements http.FileSystem with index.html fallback, so
// client-side routes deep-link without a server-side route table.
type spaFileSystem struct {
	root http.FileSystem
}

func (s *spaFileSystem) Open(name string) (http.File, error) {
	f, err := s.root.Open(name)
	if os.IsNotExist(err) {
		return s.root.Open("index.html")
	}
	return f, err
}
