package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
)

func setupUploadService(t *testing.T, cfg UploadConfig) (*UploadService, *FilesystemUploadStore) {
	t.Helper()

	store, err := NewFilesystemUploadStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	if cfg.Clock == nil {
		cfg.Clock = newTestClock().Now
	}
	svc, err := NewUploadService(store, cfg)
	require.NoError(t, err)
	return svc, store
}

func TestUploadStoresDatePrefixedFile(t *testing.T) {
	svc, store := setupUploadService(t, UploadConfig{})

	result, err := svc.Upload(context.Background(), UploadInput{
		Filename:    "Lecture 1 (final).pdf",
		ContentType: "application/pdf",
		Size:        int64(len(pdfBytes)),
		Body:        bytes.NewReader(pdfBytes),
	})
	require.NoError(t, err)
	require.Equal(t, "01-03-2024_Lecture_1__final_.pdf", result.Filename)
	require.Equal(t, "/uploads/01-03-2024_Lecture_1__final_.pdf", result.URL)
	require.Equal(t, "application/pdf", result.FileType)
	require.EqualValues(t, len(pdfBytes), result.Size)

	data, err := os.ReadFile(filepath.Join(store.Root(), result.Filename))
	require.NoError(t, err)
	require.Equal(t, pdfBytes, data)
}

func TestUploadRejectsMissingAndUnsupported(t *testing.T) {
	svc, _ := setupUploadService(t, UploadConfig{})
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{})
	require.ErrorIs(t, err, ErrNoFile)

	_, err = svc.Upload(ctx, UploadInput{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Size:        5,
		Body:        strings.NewReader("hello"),
	})
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestUploadEnforcesSizeCeilings(t *testing.T) {
	svc, store := setupUploadService(t, UploadConfig{ImageLimit: 1024, PDFLimit: 4096})
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{
		Filename:    "big.png",
		ContentType: "image/png",
		Size:        2048,
		Body:        bytes.NewReader(make([]byte, 2048)),
	})
	var tooLarge *FileTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	require.EqualValues(t, 1024, tooLarge.Limit)

	// A 2KB PDF fits under the PDF ceiling.
	pdf := append(append([]byte{}, pdfBytes...), make([]byte, 2048)...)
	_, err = svc.Upload(ctx, UploadInput{
		Filename:    "fits.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(pdf)),
		Body:        bytes.NewReader(pdf),
	})
	require.NoError(t, err)

	// Understated sizes are caught while streaming and nothing is kept.
	_, err = svc.Upload(ctx, UploadInput{
		Filename:    "liar.png",
		ContentType: "image/png",
		Size:        10,
		Body:        bytes.NewReader(append(append([]byte{}, pngBytes...), make([]byte, 2048)...)),
	})
	require.ErrorAs(t, err, &tooLarge)

	_, err = os.Stat(filepath.Join(store.Root(), "01-03-2024_liar.png"))
	require.True(t, os.IsNotExist(err))
}

func TestUploadRejectedOversizeKeepsExistingFile(t *testing.T) {
	svc, store := setupUploadService(t, UploadConfig{ImageLimit: 1024})
	ctx := context.Background()

	first, err := svc.Upload(ctx, UploadInput{
		Filename:    "doc.png",
		ContentType: "image/png",
		Size:        int64(len(pngBytes)),
		Body:        bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)
	require.Equal(t, "01-03-2024_doc.png", first.Filename)

	oversize := append(append([]byte{}, pngBytes...), make([]byte, 4096)...)
	_, err = svc.Upload(ctx, UploadInput{
		Filename:    "doc.png",
		ContentType: "image/png",
		Size:        10,
		Body:        bytes.NewReader(oversize),
	})
	var tooLarge *FileTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	require.Equal(t, "File size exceeds 1KB limit", err.Error())

	data, err := os.ReadFile(filepath.Join(store.Root(), first.Filename))
	require.NoError(t, err)
	require.Equal(t, pngBytes, data)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFileTooLargeMessage(t *testing.T) {
	cases := map[int64]string{
		DefaultImageLimit: "File size exceeds 5MB limit",
		DefaultPDFLimit:   "File size exceeds 20MB limit",
		1536 << 10:        "File size exceeds 1.5MB limit",
		512 << 10:         "File size exceeds 512KB limit",
		1536:              "File size exceeds 1.5KB limit",
		100:               "File size exceeds 100 bytes limit",
	}
	for limit, want := range cases {
		require.Equal(t, want, (&FileTooLargeError{Limit: limit}).Error())
	}
}

func TestUploadContentSniffing(t *testing.T) {
	input := func() UploadInput {
		return UploadInput{
			Filename:    "fake.png",
			ContentType: "image/png",
			Size:        int64(len(pdfBytes)),
			Body:        bytes.NewReader(pdfBytes),
		}
	}

	lenient, _ := setupUploadService(t, UploadConfig{})
	_, err := lenient.Upload(context.Background(), input())
	require.NoError(t, err)

	strict, _ := setupUploadService(t, UploadConfig{SniffContent: true})
	_, err = strict.Upload(context.Background(), input())
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = strict.Upload(context.Background(), UploadInput{
		Filename:    "real.jpg",
		ContentType: "image/png",
		Size:        int64(len(pngBytes)),
		Body:        bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)
}

func TestUploadSameNameOverwritesUnlessUnique(t *testing.T) {
	ctx := context.Background()
	upload := func(svc *UploadService) *UploadResult {
		result, err := svc.Upload(ctx, UploadInput{
			Filename:    "cv.pdf",
			ContentType: "application/pdf",
			Size:        int64(len(pdfBytes)),
			Body:        bytes.NewReader(pdfBytes),
		})
		require.NoError(t, err)
		return result
	}

	plain, _ := setupUploadService(t, UploadConfig{})
	require.Equal(t, upload(plain).Filename, upload(plain).Filename)

	unique, _ := setupUploadService(t, UploadConfig{UniqueNames: true})
	first := upload(unique)
	second := upload(unique)
	require.NotEqual(t, first.Filename, second.Filename)
	require.True(t, strings.HasPrefix(first.Filename, "01-03-2024_cv_"))
	require.True(t, strings.HasSuffix(first.Filename, ".pdf"))
	require.Len(t, first.Filename, len("01-03-2024_cv_")+8+len(".pdf"))
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "report.pdf", want: "report.pdf"},
		{in: "my photo.JPG", want: "my_photo.JPG"},
		{in: "a/b\\c.png", want: "a_b_c.png"},
		{in: "naïve-file_1.webp", want: "na_ve-file_1.webp"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, SanitizeFilename(tc.in))
	}
}
