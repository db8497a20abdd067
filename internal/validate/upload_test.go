package validate

import "testing"

func TestUpload(t *testing.T) {
	cases := []struct {
		name     string
		fileType string
		size     int64
		wantErr  error
	}{
		{"png ok", "image/png", 2 << 20, nil},
		{"jpeg ok", "image/jpeg", 1, nil},
		{"webm ok", "video/webm", MaxUploadSize, nil},
		{"svg rejected", "image/svg+xml", 10, ErrUnsupportedType},
		{"pdf rejected", "application/pdf", 10, ErrUnsupportedType},
		{"empty type rejected", "", 10, ErrUnsupportedType},
		{"oversize rejected", "image/png", MaxUploadSize + 1, ErrTooLarge},
		{"60MB rejected", "video/mp4", 60 << 20, ErrTooLarge},
		{"type checked before size", "application/zip", 60 << 20, ErrUnsupportedType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Upload(tc.fileType, tc.size); err != tc.wantErr {
				t.Fatalf("Upload(%q, %d) = %v, want %v", tc.fileType, tc.size, err, tc.wantErr)
			}
		})
	}
}
