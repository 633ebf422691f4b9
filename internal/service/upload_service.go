package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sefazor/eventos-backend/pkg/storage"
	"github.com/sefazor/eventos-backend/pkg/utils"
	"go.uber.org/zap"
)

const (
	PosterFolder = "posters"
	AvatarFolder = "avatars"
)

type UploadService struct {
	storage   storage.FileStorage
	validator *utils.Validator
	maxBytes  int64
	logger    *zap.Logger
}

func NewUploadService(store storage.FileStorage, validator *utils.Validator, maxBytes int64, logger *zap.Logger) *UploadService {
	return &UploadService{
		storage:   store,
		validator: validator,
		maxBytes:  maxBytes,
		logger:    logger.Named("upload"),
	}
}

// Check validates size and content type without storing anything.
func (s *UploadService) Check(field string, fh *multipart.FileHeader) error {
	_, err := s.inspect(field, fh)
	return err
}

func (s *UploadService) inspect(field string, fh *multipart.FileHeader) (*mimetype.MIME, error) {
	if fh.Size > s.maxBytes {
		return nil, NewValidationError([]utils.FieldError{{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d MB", s.maxBytes/(1024*1024)),
		}})
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(io.LimitReader(f, 3072))
	if err != nil {
		return nil, fmt.Errorf("detect upload type: %w", err)
	}
	if fe := s.validator.Var(field, mtype.String(), "supported_image"); fe != nil {
		return nil, NewValidationError([]utils.FieldError{*fe})
	}
	return mtype, nil
}

// Save stores the image under folder and returns the reference to persist.
func (s *UploadService) Save(ctx context.Context, field, folder string, fh *multipart.FileHeader) (string, error) {
	mtype, err := s.inspect(field, fh)
	if err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	key := path.Join(folder, time.Now().UTC().Format("20060102")+"-"+utils.GenerateRandomString(16)+mtype.Extension())
	if err := s.storage.Upload(ctx, key, f, mtype.String()); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	s.logger.Debug("file stored", zap.String("key", key), zap.Int64("size", fh.Size))
	return s.storage.PublicURL(key), nil
}

// Remove deletes a previously stored file; failures are only logged.
func (s *UploadService) Remove(ctx context.Context, ref *string) {
	if ref == nil || *ref == "" {
		return
	}
	key, ok := s.storage.KeyFromURL(*ref)
	if !ok {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete stored file", zap.String("key", key), zap.Error(err))
	}
}
