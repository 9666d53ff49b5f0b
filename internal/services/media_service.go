package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/realtime"
	"backoffice/internal/repositories"
	"backoffice/internal/storage"
	"backoffice/internal/utils"

	"github.com/google/uuid"
)

type MediaService struct {
	Repo      repositories.MediaRepository
	Store     storage.Store
	Events    realtime.Publisher
	RequestID string
	Now       func() time.Time
}

func (s MediaService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s MediaService) withURL(m models.Media) models.Media {
	if s.Store != nil && m.FilePath != "" {
		m.URL = s.Store.PublicURL(models.MediaBucket, m.FilePath)
	}
	return m
}

func (s MediaService) List(ctx context.Context, f models.MediaFilter) ([]models.Media, error) {
	items, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load media", Err: err}
	}
	for i := range items {
		items[i] = s.withURL(items[i])
	}
	return items, nil
}

func (s MediaService) Get(ctx context.Context, id string) (models.Media, error) {
	m, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, domain.NotFoundError{Resource: "media", Err: err}
		}
		return m, domain.InternalError{Msg: "failed to load media", Err: err}
	}
	return s.withURL(m), nil
}

// CreateMetadata records a file that is already in storage.
func (s MediaService) CreateMetadata(ctx context.Context, in models.MediaInput, uploadedBy string) (models.Media, error) {
	m := models.Media{
		MediaID:    uuid.NewString(),
		FilePath:   strings.TrimSpace(in.FilePath),
		MimeType:   strings.TrimSpace(in.MimeType),
		FileSize:   in.FileSize,
		UploadedBy: uploadedBy,
	}
	if in.Title != nil {
		m.Title = strings.TrimSpace(*in.Title)
	}
	if in.AltText != nil {
		m.AltText = *in.AltText
	}
	if in.Caption != nil {
		m.Caption = *in.Caption
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if m.FilePath == "" {
		return m, domain.ValidationError{Field: "file_path", Msg: "required"}
	}
	if m.Title == "" {
		m.Title = m.FilePath[strings.LastIndex(m.FilePath, "/")+1:]
	}
	return s.insert(ctx, m, in.Tags, in.Categories)
}

// Upload stores the file at YYYY/MM/<millis>_<rand>.<ext> and records it.
func (s MediaService) Upload(ctx context.Context, fileName, mimeType string, size int64, r io.Reader, uploadedBy string) (models.Media, error) {
	if s.Store == nil {
		return models.Media{}, domain.InternalError{Msg: "storage is not configured"}
	}
	if strings.TrimSpace(fileName) == "" {
		return models.Media{}, domain.ValidationError{Field: "file", Msg: "required"}
	}
	key := storage.ObjectKey(fileName, s.now())
	if err := s.Store.Upload(ctx, models.MediaBucket, key, r); err != nil {
		return models.Media{}, domain.InternalError{Msg: "failed to store file", Err: err}
	}
	utils.LogEvent(s.RequestID, "media", "upload", "key="+key+" size="+strconv.FormatInt(size, 10))

	m := models.Media{
		MediaID:    uuid.NewString(),
		Title:      fileName,
		FilePath:   key,
		MimeType:   mimeType,
		FileSize:   size,
		UploadedBy: uploadedBy,
	}
	out, err := s.insert(ctx, m, nil, nil)
	if err != nil {
		if rmErr := s.Store.Remove(ctx, models.MediaBucket, key); rmErr != nil {
			log.Printf("[MEDIA] cleanup failed key=%s err=%v", key, rmErr)
		}
		return out, err
	}
	return out, nil
}

func (s MediaService) insert(ctx context.Context, m models.Media, tags, cats []string) (models.Media, error) {
	if err := s.Repo.Insert(ctx, m); err != nil {
		return m, domain.InternalError{Msg: "failed to save media", Err: err}
	}
	tags, cats = utils.CleanList(tags), utils.CleanList(cats)
	if len(tags) > 0 {
		if err := s.Repo.ReplaceTags(ctx, m.MediaID, tags); err != nil {
			log.Printf("[MEDIA] tags not saved id=%s err=%v", m.MediaID, err)
		}
	}
	if len(cats) > 0 {
		if err := s.Repo.ReplaceCategories(ctx, m.MediaID, cats); err != nil {
			log.Printf("[MEDIA] categories not saved id=%s err=%v", m.MediaID, err)
		}
	}
	realtime.Notify(s.Events, "media", realtime.ActionInsert, m.MediaID)

	if saved, err := s.Repo.Get(ctx, m.MediaID); err == nil {
		return s.withURL(saved), nil
	}
	m.Tags, m.Categories = tags, cats
	return s.withURL(m), nil
}

// Update edits descriptive fields; tags and categories are replaced when sent.
// The returned url carries a ?t= cache buster so previews refresh.
func (s MediaService) Update(ctx context.Context, id string, in models.MediaInput) (models.Media, error) {
	f := intdb.Fields{}
	if in.Title != nil {
		f = f.Set("title", strings.TrimSpace(*in.Title))
	}
	if in.AltText != nil {
		f = f.Set("alt_text", *in.AltText)
	}
	if in.Caption != nil {
		f = f.Set("caption", *in.Caption)
	}
	if in.Description != nil {
		f = f.Set("description", *in.Description)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return models.Media{}, err
	}
	if _, err := s.Repo.Update(ctx, id, f); err != nil {
		return models.Media{}, domain.InternalError{Msg: "failed to update media", Err: err}
	}
	if in.Tags != nil {
		if err := s.Repo.ReplaceTags(ctx, id, utils.CleanList(in.Tags)); err != nil {
			return models.Media{}, domain.InternalError{Msg: "failed to update tags", Err: err}
		}
	}
	if in.Categories != nil {
		if err := s.Repo.ReplaceCategories(ctx, id, utils.CleanList(in.Categories)); err != nil {
			return models.Media{}, domain.InternalError{Msg: "failed to update categories", Err: err}
		}
	}
	realtime.Notify(s.Events, "media", realtime.ActionUpdate, id)

	m, err := s.Get(ctx, id)
	if err != nil {
		return m, err
	}
	if m.URL != "" {
		m.URL += "?t=" + strconv.FormatInt(s.now().UnixMilli(), 10)
	}
	return m, nil
}

// Delete removes the stored object first; a storage failure is only logged.
func (s MediaService) Delete(ctx context.Context, id string) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.Store != nil && m.FilePath != "" {
		if err := s.Store.Remove(ctx, models.MediaBucket, m.FilePath); err != nil {
			log.Printf("[MEDIA] storage remove failed id=%s path=%s err=%v", id, m.FilePath, err)
		}
	}
	n, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return domain.InternalError{Msg: "failed to delete media", Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "media"}
	}
	utils.LogEvent(s.RequestID, "media", "delete", "id="+id)
	realtime.Notify(s.Events, "media", realtime.ActionDelete, id)
	return nil
}
