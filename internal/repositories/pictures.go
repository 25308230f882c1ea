package repositories

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
)

const uploadDir = "uploads"

// StorePicture persists decoded image bytes under a key derived from the
// owning entity's id. Objects go to R2 when the client is configured,
// otherwise to the local uploads directory.
func StorePicture(ctx context.Context, key string, data []byte) error {
	if R2Client != nil {
		return UploadObject(ctx, key, http.DetectContentType(data), data)
	}

	path := filepath.Join(uploadDir, key)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
