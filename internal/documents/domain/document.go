// Package domain describes the downloadable property documents.
package domain

// Document is one downloadable file from the property data room.
type Document struct {
	// Slug is the public identifier used in URLs and stored filenames.
	Slug string
	// Filename is the ASCII download name sent in Content-Disposition.
	Filename string
	// Extension selects the stored file and the content type.
	Extension string
}

// ContentType returns the MIME type for the document's extension.
func (d Document) ContentType() string {
	if d.Extension == "pdf" {
		return "application/pdf"
	}
	return "image/png"
}

// DownloadName is the filename offered to the browser.
func (d Document) DownloadName() string {
	return d.Filename + "." + d.Extension
}

// StoredName is the filename on disk under the documents directory.
func (d Document) StoredName() string {
	return d.Slug + "." + d.Extension
}

// Catalog returns the property data room contents keyed by slug.
func Catalog() map[string]Document {
	return map[string]Document{
		"egrn-excerpt": {
			Slug:      "egrn-excerpt",
			Filename:  "EGRN_excerpt",
			Extension: "pdf",
		},
		"technical-passport": {
			Slug:      "technical-passport",
			Filename:  "Technical_passport",
			Extension: "pdf",
		},
		"floor-plans": {
			Slug:      "floor-plans",
			Filename:  "Floor_plans",
			Extension: "png",
		},
	}
}
