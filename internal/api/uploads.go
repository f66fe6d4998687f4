package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

var errFileTooLarge = errors.New("file exceeds the maximum allowed size")

var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

// saveUpload stores a multipart file under the uploads directory and returns
// the public reference path. The stored name is random; the client's file
// name is only used for its extension.
func (h *Handler) saveUpload(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	if file.Size > h.uploads.MaxDocumentSize {
		return "", errFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExts[ext] {
		return "", fmt.Errorf("file type %q is not allowed", ext)
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	name := hex.EncodeToString(buf) + ext

	dir := filepath.Join(h.uploads.Dir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return path.Join("/uploads", subdir, name), nil
}

// formFileUpload binds the "file" form field and stores it, writing the
// error response itself on failure.
func (h *Handler) formFileUpload(c *gin.Context, subdir string) (string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a multipart 'file' field is required"})
		return "", false
	}
	url, err := h.saveUpload(c, file, subdir)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return "", false
	}
	return url, true
}
