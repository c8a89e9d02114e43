package filestorage

import "mime/multipart"

// Storage archives uploaded files. The import pipeline keeps the original
// spreadsheet around so a failed import can be audited row by row.
type Storage interface {
	SaveUpload(file *multipart.FileHeader, subdir string) (string, error)
	Delete(path string) error
}
