package utils

import "testing"

func TestCleanFilename(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"photo.jpg", "photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"my photo (1).png", "myphoto1.png"},
		{"weird;name$.gif", "weirdname.gif"},
	}

	for _, tc := range cases {
		if got := cleanFilename(tc.input); got != tc.want {
			t.Errorf("cleanFilename(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestValidateFileType(t *testing.T) {
	cases := []struct {
		name      string
		filename  string
		mediaType string
		wantErr   bool
	}{
		{"jpg image", "photo.jpg", "image", false},
		{"png image", "photo.PNG", "image", false},
		{"webp image", "photo.webp", "image", false},
		{"mp4 video", "clip.mp4", "video", false},
		{"mov video", "clip.mov", "video", false},
		{"exe as image", "malware.exe", "image", true},
		{"mp4 as image", "clip.mp4", "image", true},
		{"jpg as video", "photo.jpg", "video", true},
		{"unknown media type", "photo.jpg", "audio", true},
		{"no extension", "photo", "image", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateFileType(tc.filename, tc.mediaType)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for %q as %s", tc.filename, tc.mediaType)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for %q as %s: %v", tc.filename, tc.mediaType, err)
			}
		})
	}
}
