package models

// UploadGrant is a write-once signed upload capability.
type UploadGrant struct {
	UploadURL string `json:"upload_url"`
	Token     string `json:"token"`
	ObjectKey string `json:"object_key"`
}

// DownloadGrant is a time-boxed signed read URL.
type DownloadGrant struct {
	SignedURL string `json:"signed_url"`
	ExpiresIn int    `json:"expires_in"`
}
