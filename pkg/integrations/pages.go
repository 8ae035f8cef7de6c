package integrations

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// ChapterPages returns the image files of a downloaded chapter directory in
// page order.
func ChapterPages(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter directory: %w", err)
	}

	var pages []string
	for _, file := range files {
		if !file.IsDir() && isImageFile(file.Name()) {
			pages = append(pages, filepath.Join(dir, file.Name()))
		}
	}
	slices.Sort(pages)
	return pages, nil
}

// PageFileName names page index of a chapter so that names sort in page
// order.
func PageFileName(index int, contentType string) string {
	ext := ".jpg"
	exts, _ := mime.ExtensionsByType(contentType)
	for _, candidate := range exts {
		if slices.Contains(imageExtensions, candidate) {
			ext = candidate
			break
		}
	}
	return fmt.Sprintf("%04d%s", index+1, ext)
}

// isImageFile checks if a file has an image extension
func isImageFile(filename string) bool {
	return slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(filename)))
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}

// SanitizeFilename is sanitizeFilename for other packages laying out files.
func SanitizeFilename(name string) string {
	return sanitizeFilename(name)
}
