package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/charlesng35/facultysite/pkg/logger"
	"github.com/charlesng35/facultysite/pkg/metrics"
)

// Upload ceilings per declared type.
const (
	DefaultImageLimit int64 = 5 << 20
	DefaultPDFLimit   int64 = 20 << 20

	sniffLength = 3072
)

var (
	allowedUploadTypes = map[string]bool{
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
		"image/webp":      true,
		"application/pdf": true,
	}

	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)
)

// UploadConfig tunes the upload service.
type UploadConfig struct {
	PublicPrefix string
	ImageLimit   int64
	PDFLimit     int64
	// SniffContent rejects files whose leading bytes do not match an allowed
	// type. When false a mismatch is only logged.
	SniffContent bool
	// UniqueNames appends a random suffix so same-day uploads of one name
	// never replace each other.
	UniqueNames bool
	Clock       func() time.Time
}

// UploadInput describes one received file.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult is what clients store to reference the file later.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	FileType string `json:"fileType"`
	Size     int64  `json:"size"`
}

// UploadService validates incoming files and hands them to an UploadStore.
type UploadService struct {
	store UploadStore
	cfg   UploadConfig
	now   func() time.Time
}

// NewUploadService constructs an upload service writing to store.
func NewUploadService(store UploadStore, cfg UploadConfig) (*UploadService, error) {
	if store == nil {
		return nil, errors.New("upload service: store is required")
	}

	cfg.PublicPrefix = "/" + strings.Trim(strings.TrimSpace(cfg.PublicPrefix), "/")
	if cfg.PublicPrefix == "/" {
		cfg.PublicPrefix = "/uploads"
	}
	if cfg.ImageLimit <= 0 {
		cfg.ImageLimit = DefaultImageLimit
	}
	if cfg.PDFLimit <= 0 {
		cfg.PDFLimit = DefaultPDFLimit
	}
	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &UploadService{store: store, cfg: cfg, now: now}, nil
}

// Limit reports the size ceiling for a declared content type.
func (s *UploadService) Limit(contentType string) int64 {
	if normalizeContentType(contentType) == "application/pdf" {
		return s.cfg.PDFLimit
	}
	return s.cfg.ImageLimit
}

// MaxLimit is the largest ceiling of any accepted type.
func (s *UploadService) MaxLimit() int64 {
	return max(s.cfg.ImageLimit, s.cfg.PDFLimit)
}

// Upload checks the declared type and size, then stores the file under a
// date-prefixed sanitised name.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	ctx = ensuredContext(ctx)
	if input.Body == nil {
		return nil, ErrNoFile
	}

	contentType := normalizeContentType(input.ContentType)
	label := uploadLabel(contentType)
	if !allowedUploadTypes[contentType] {
		metrics.Uploads.WithLabelValues(label, "rejected").Inc()
		return nil, ErrUnsupportedType
	}

	limit := s.Limit(contentType)
	if input.Size > limit {
		metrics.Uploads.WithLabelValues(label, "rejected").Inc()
		return nil, &FileTooLargeError{Limit: limit, Size: input.Size}
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(input.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		metrics.Uploads.WithLabelValues(label, "error").Inc()
		return nil, fmt.Errorf("upload service: read file: %w", err)
	}
	head = head[:n]

	if err := s.checkContent(contentType, head, input.Filename); err != nil {
		metrics.Uploads.WithLabelValues(label, "rejected").Inc()
		return nil, err
	}

	name, err := s.filename(input.Filename)
	if err != nil {
		metrics.Uploads.WithLabelValues(label, "error").Inc()
		return nil, err
	}

	body := io.MultiReader(bytes.NewReader(head), input.Body)
	stored, err := s.store.Save(ctx, name, body, limit)
	if errors.Is(err, ErrObjectTooLarge) {
		metrics.Uploads.WithLabelValues(label, "rejected").Inc()
		return nil, &FileTooLargeError{Limit: limit, Size: stored.Size}
	}
	if err != nil {
		metrics.Uploads.WithLabelValues(label, "error").Inc()
		return nil, fmt.Errorf("upload service: %w", err)
	}

	metrics.Uploads.WithLabelValues(label, "stored").Inc()
	metrics.UploadBytes.Observe(float64(stored.Size))

	return &UploadResult{
		URL:      s.cfg.PublicPrefix + "/" + name,
		Filename: name,
		FileType: contentType,
		Size:     stored.Size,
	}, nil
}

func (s *UploadService) checkContent(declared string, head []byte, original string) error {
	if len(head) == 0 {
		return nil
	}

	detected := mimetype.Detect(head)
	if sniffMatches(declared, detected) {
		return nil
	}

	if s.cfg.SniffContent {
		return ErrUnsupportedType
	}
	logger.WithModule("uploads").Warn("declared content type does not match file content",
		zap.String("filename", original),
		zap.String("declared", declared),
		zap.String("detected", detected.String()),
	)
	return nil
}

func sniffMatches(declared string, detected *mimetype.MIME) bool {
	if declared == "image/jpg" {
		declared = "image/jpeg"
	}
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(declared) {
			return true
		}
	}
	return false
}

// filename builds DD-MM-YYYY_<sanitised original>.
func (s *UploadService) filename(original string) (string, error) {
	base := original
	if idx := strings.LastIndexAny(base, `/\`); idx >= 0 {
		base = base[idx+1:]
	}
	base = SanitizeFilename(base)
	if base == "" {
		base = "file"
	}

	if s.cfg.UniqueNames {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		if dot := strings.LastIndex(base, "."); dot > 0 {
			base = base[:dot] + "_" + suffix + base[dot:]
		} else {
			base = base + "_" + suffix
		}
	}

	name := s.now().Format("02-01-2006") + "_" + base
	if len(name) > 255 {
		return "", newValidationError("File name is too long")
	}
	return name, nil
}

// SanitizeFilename replaces every character outside [A-Za-z0-9_.-] with "_".
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

func normalizeContentType(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return value
}

func uploadLabel(contentType string) string {
	switch {
	case contentType == "application/pdf":
		return "pdf"
	case allowedUploadTypes[contentType]:
		return "image"
	default:
		return "other"
	}
}
