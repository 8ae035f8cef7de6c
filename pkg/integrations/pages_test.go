package integrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChapterPages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0010.png", "0002.jpg", "notes.txt", "0001.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	os.Mkdir(filepath.Join(dir, "0003.png"), 0755)

	pages, err := ChapterPages(dir)
	if err != nil {
		t.Fatalf("ChapterPages() error = %v", err)
	}

	want := []string{"0001.webp", "0002.jpg", "0010.png"}
	if len(pages) != len(want) {
		t.Fatalf("Expected %d pages, got %d", len(want), len(pages))
	}
	for i, name := range want {
		if filepath.Base(pages[i]) != name {
			t.Errorf("Expected page %d to be %s, got %s", i, name, filepath.Base(pages[i]))
		}
	}
}

func TestPageFileName(t *testing.T) {
	if got := PageFileName(0, "image/png"); got != "0001.png" {
		t.Errorf("PageFileName(0, png) = %q", got)
	}
	if got := PageFileName(41, "application/octet-stream"); got != "0042.jpg" {
		t.Errorf("PageFileName(41, unknown) = %q", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Normal Title", "Normal Title"},
		{"Title/With/Slashes", "Title_With_Slashes"},
		{"Title\\With\\Backslashes", "Title_With_Backslashes"},
		{"Title:With:Colons", "Title_With_Colons"},
		{"Title*With?Special<Chars>", "Title_With_Special_Chars_"},
		{"  Spaces Around  ", "Spaces Around"},
		{".Hidden File.", "Hidden File"},
	}

	for _, tt := range tests {
		result := sanitizeFilename(tt.input)
		if result != tt.expected {
			t.Errorf("sanitizeFilename(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		filename string
		expected bool
	}{
		{"image.jpg", true},
		{"image.jpeg", true},
		{"image.png", true},
		{"image.gif", true},
		{"image.webp", true},
		{"image.JPG", true}, // Case insensitive
		{"document.pdf", false},
		{"noextension", false},
		{"image.bmp", false},
	}

	for _, tt := range tests {
		result := isImageFile(tt.filename)
		if result != tt.expected {
			t.Errorf("isImageFile(%q) = %v, expected %v", tt.filename, result, tt.expected)
		}
	}
}
