// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxUploadSize is the largest file accepted by the uploads endpoint.
	MaxUploadSize = 5 << 20 // 5 MB

	// UploadFormSlack covers the multipart framing around the file part.
	UploadFormSlack = 64 << 10

	// MaxContentBodySize is the maximum size of a website content or
	// settings update.
	MaxContentBodySize = 1 << 20 // 1 MB
)
