// Package transport holds the documents HTTP request shapes.
package transport

type DownloadRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Email        string `json:"email" validate:"required,email"`
	DocumentType string `json:"documentType" validate:"required,min=1,max=100"`
}
