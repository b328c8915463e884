package filemgr

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
)

func TestResolveImageURL(t *testing.T) {
	cases := []struct {
		name     string
		imageURL string
		local    string
		want     string
	}{
		{"absolute url wins", "https://cdn.example.com/a.jpg", "uploads/a.jpg", "https://cdn.example.com/a.jpg"},
		{"plain http too", "http://cdn.example.com/a.jpg", "", "http://cdn.example.com/a.jpg"},
		{"local path resolves under static base", "", "uploads/a.jpg", "/static/uploads/a.jpg"},
		{"leading slash tolerated", "", "/uploads/a.jpg", "/static/uploads/a.jpg"},
		{"neither present means placeholder", "", "", ""},
	}
	for _, tc := range cases {
		if got := ResolveImageURL(tc.imageURL, tc.local); got != tc.want {
			t.Errorf("%s: ResolveImageURL(%q, %q) = %q, want %q", tc.name, tc.imageURL, tc.local, got, tc.want)
		}
	}
}

func header(contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "photo.jpg",
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestValidatePhoto(t *testing.T) {
	if err := ValidatePhoto(header("image/jpeg", 1024)); err != nil {
		t.Fatalf("valid photo rejected: %v", err)
	}
	if err := ValidatePhoto(header("application/pdf", 1024)); err != ErrNotAnImage {
		t.Fatalf("want ErrNotAnImage, got %v", err)
	}
	if err := ValidatePhoto(header("image/png", MaxPhotoBytes+1)); err != ErrTooLarge {
		t.Fatalf("want ErrTooLarge, got %v", err)
	}
}

func TestPhotoFilename(t *testing.T) {
	a := PhotoFilename("Grandma's Lemon Tart!", ".jpg")
	b := PhotoFilename("Grandma's Lemon Tart!", ".jpg")
	if a == b {
		t.Fatalf("filenames must be collision-resistant, got %q twice", a)
	}
	if !strings.Contains(a, "grandma-s-lemon-tart") {
		t.Fatalf("slug missing from filename %q", a)
	}
	if !strings.HasSuffix(a, ".jpg") {
		t.Fatalf("extension missing from filename %q", a)
	}
}
