package models

const (
	MediaBucket       = "media"
	PNRPreviewsBucket = "pnr-previews"
)

type Media struct {
	MediaID     string   `json:"media_id" db:"media_id"`
	Title       string   `json:"title" db:"title"`
	FilePath    string   `json:"file_path" db:"file_path"`
	MimeType    string   `json:"mime_type" db:"mime_type"`
	FileSize    int64    `json:"file_size" db:"file_size"`
	UploadedBy  string   `json:"uploaded_by" db:"uploaded_by"`
	AltText     string   `json:"alt_text" db:"alt_text"`
	Caption     string   `json:"caption" db:"caption"`
	Description string   `json:"description" db:"description"`
	CreatedAt   string   `json:"created_at" db:"created_at"`
	Tags        []string `json:"tags" db:"-"`
	Categories  []string `json:"categories" db:"-"`
	URL         string   `json:"url" db:"-"`
}

type MediaFilter struct {
	Search   string
	Type     string
	Category string
}

type MediaInput struct {
	Title       *string  `json:"title"`
	FilePath    string   `json:"file_path"`
	MimeType    string   `json:"mime_type"`
	FileSize    int64    `json:"file_size"`
	AltText     *string  `json:"alt_text"`
	Caption     *string  `json:"caption"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Categories  []string `json:"categories"`
}
