package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
)

// FileUpload holds a parsed file from a multipart form upload. Bind one with
// a form tag:
//
//	type Req struct {
//	    Image api.FileUpload `form:"image" required:"true"`
//	}
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Header      *multipart.FileHeader
}

func newFileUpload(h *multipart.FileHeader) FileUpload {
	return FileUpload{
		Filename:    h.Filename,
		ContentType: h.Header.Get("Content-Type"),
		Size:        h.Size,
		Header:      h,
	}
}

// Open returns a reader for the uploaded file contents.
func (f *FileUpload) Open() (io.ReadCloser, error) {
	if f.Header == nil {
		return nil, errors.New("no file header")
	}
	return f.Header.Open()
}

// ReadAll reads the whole upload into memory.
func (f *FileUpload) ReadAll() ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		//nolint:errcheck,gosec // read-only handle
		rc.Close()
	}()
	return io.ReadAll(rc)
}

// ParseFileUpload extracts a file upload from a multipart form.
func ParseFileUpload(r *http.Request, fieldName string) (*FileUpload, error) {
	file, header, err := r.FormFile(fieldName)
	if err != nil {
		return nil, fmt.Errorf("form file %q: %w", fieldName, err)
	}
	//nolint:errcheck,gosec // reopened on demand through Header
	file.Close()
	up := newFileUpload(header)
	return &up, nil
}

func isFileType(t reflect.Type) bool {
	return indirectType(t) == reflect.TypeFor[FileUpload]() || t == reflect.TypeFor[[]FileUpload]()
}
