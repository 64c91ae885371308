package models

// GifResult is one entry mapped out of a Tenor response. Ephemeral,
// never persisted.
type GifResult struct {
	Id         string `json:"id"`
	Url        string `json:"url"`
	PreviewUrl string `json:"previewUrl"`
	Title      string `json:"title"`
}
