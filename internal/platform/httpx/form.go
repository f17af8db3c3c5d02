package httpx

import (
	"net/http"

	"github.com/casavia/casavia/internal/platform/storage"
)

// FormUpload extracts one uploaded file from a multipart request. The
// returned closer is nil when the field carries no file.
func FormUpload(r *http.Request, field string) (*storage.Upload, func()) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil
	}
	up := &storage.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
	return up, func() { _ = file.Close() }
}

// FormUploads extracts every uploaded file submitted under the field.
func FormUploads(r *http.Request, field string) ([]storage.Upload, func()) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	ups := make([]storage.Upload, 0, len(headers))
	closers := make([]func() error, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			continue
		}
		closers = append(closers, file.Close)
		ups = append(ups, storage.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		})
	}
	return ups, func() {
		for _, c := range closers {
			_ = c()
		}
	}
}
