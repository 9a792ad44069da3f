package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrBadUpload = errors.New("upload rejected")

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// saveImage validates and stores an uploaded image under subdir ("menu" or
// "proof") and returns the relative URL path served by /uploads/. Type is
// sniffed from the content, not trusted from the filename; anything over
// the configured size limit is rejected before writing.
func (s *Server) saveImage(fh *multipart.FileHeader, subdir string) (string, error) {
	if fh.Size > s.cfg.Upload.MaxSizeBytes {
		return "", fmt.Errorf("%w: image exceeds %dMB", ErrBadUpload, s.cfg.Upload.MaxSizeBytes>>20)
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	ext, ok := allowedImageTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", fmt.Errorf("%w: only JPEG, PNG and WebP images are accepted", ErrBadUpload)
	}

	dir := filepath.Join(s.cfg.Upload.Dir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.Write(head[:n]); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	// Cap the copy at the limit even if the reported size lied.
	if _, err := io.Copy(dst, io.LimitReader(src, s.cfg.Upload.MaxSizeBytes)); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + subdir + "/" + name, nil
}

// removeUpload deletes a stored image by its relative URL path. Best
// effort: a missing file is not an error worth surfacing.
func (s *Server) removeUpload(rel string) {
	if rel == "" {
		return
	}
	trimmed := strings.TrimPrefix(rel, "/uploads/")
	if trimmed == rel || strings.Contains(trimmed, "..") {
		s.log.WithField("path", rel).Warn("refusing to remove suspicious upload path")
		return
	}
	if err := os.Remove(filepath.Join(s.cfg.Upload.Dir, filepath.FromSlash(trimmed))); err != nil && !os.IsNotExist(err) {
		s.log.WithError(err).WithField("path", rel).Warn("removing upload failed")
	}
}
