package dto

// AssistantQueryRequest is the single exposed assistant operation. Files
// arrive as multipart parts alongside these fields; JSON bodies are
// accepted when there are no files.
type AssistantQueryRequest struct {
	Question         string `json:"question" form:"question" validate:"required"`
	Trade            string `json:"trade" form:"trade"`
	Brand            string `json:"brand" form:"brand"`
	ShareWithLibrary bool   `json:"share_with_library" form:"share_with_library"`
}

type UploadedFileInfo struct {
	FileName   string `json:"file_name"`
	ExternalId string `json:"file_id"`
}

type AssistantQueryResponse struct {
	Text     string             `json:"text"`
	Mode     string             `json:"mode"`
	Uploaded []UploadedFileInfo `json:"uploaded,omitempty"`
}
