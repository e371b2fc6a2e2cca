package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/security"
	"go-interview-backend/pkg/security/antivirus"
	"go-interview-backend/pkg/storage"
)

// Upload size limits per file kind.
const (
	maxResumeBytes    = 10 << 20
	maxSnapshotBytes  = 5 << 20
	maxRecordingBytes = 50 << 20
)

// uploadGuard validates, scans and stores files received from the transport
// layer.
type uploadGuard struct {
	store   storage.FileStore
	scanner antivirus.Scanner
}

func readUpload(f *domain.UploadedFile, limit int64) ([]byte, error) {
	if f.Size > limit {
		return nil, apperror.BadRequest(fmt.Sprintf("File too large. Maximum size is %d MB", limit>>20))
	}
	data, err := io.ReadAll(io.LimitReader(f.Content, limit+1))
	if err != nil {
		return nil, apperror.BadRequest("Failed to read uploaded file")
	}
	if int64(len(data)) > limit {
		return nil, apperror.BadRequest(fmt.Sprintf("File too large. Maximum size is %d MB", limit>>20))
	}
	if len(data) == 0 {
		return nil, apperror.BadRequest("Uploaded file is empty")
	}
	return data, nil
}

// check runs the whitelist and the antivirus scan and returns the file bytes.
func (g uploadGuard) check(ctx context.Context, kind security.FileKind, f *domain.UploadedFile, limit int64) ([]byte, error) {
	data, err := readUpload(f, limit)
	if err != nil {
		return nil, err
	}

	ip, _, reqID := clientMeta(ctx)
	result := security.ValidateFile(kind, f.Filename, data)
	if !result.Valid {
		security.DefaultLogger().LogUploadRejected(ctx, f.Filename, ip, reqID, result.Error)
		return nil, apperror.BadRequest(result.Error)
	}

	scan := g.scanner.Scan(ctx, f.Filename, data)
	if scan.Infected || scan.Error != nil {
		reason := "scan failed"
		if scan.Infected {
			reason = "infected: " + scan.ThreatName
		}
		logger.Log.Warn("Upload rejected by antivirus", "filename", f.Filename, "scanner", scan.ScannerName, "reason", reason, "error", scan.Error)
		security.DefaultLogger().LogUploadRejected(ctx, f.Filename, ip, reqID, reason)
		return nil, apperror.BadRequest("File rejected by security scan")
	}
	return data, nil
}

func (g uploadGuard) put(ctx context.Context, prefix, filename, contentType string, data []byte) (string, error) {
	key := storage.NewKey(prefix, filename)
	if err := g.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", apperror.Internal(fmt.Errorf("store %s: %w", prefix, err))
	}
	return key, nil
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}

func extOf(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
