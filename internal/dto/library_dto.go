package dto

type LibraryIngestResponse struct {
	Files      []UploadedFileInfo `json:"files"`
	LibraryIds []string           `json:"library_ids"`
}

type LibraryFileResponse struct {
	ExternalId string `json:"file_id"`
	Name       string `json:"name"`
	IndexId    string `json:"index_id"`
	Status     string `json:"status"`
}
