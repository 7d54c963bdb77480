package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/events"
	"github.com/spec-kit/document-service/internal/repository"
	"github.com/spec-kit/document-service/internal/storage"
	apperrors "github.com/spec-kit/document-service/pkg/util"
)

// ObjectGateway is the storage surface the document service needs.
type ObjectGateway interface {
	Put(ctx context.Context, r io.Reader, size int64, contentType, ownerScope, name string) (string, error)
	Stat(ctx context.Context, key string) (storage.ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// DocumentService coordinates document metadata and the storage gateway.
type DocumentService struct {
	docs       repository.DocumentRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	gateway    ObjectGateway
	stats      *storage.StatCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// DocumentDependencies encapsulates requirements for the document service.
type DocumentDependencies struct {
	DocumentRepo repository.DocumentRepository
	CategoryRepo repository.CategoryRepository
	UserRepo     repository.UserRepository
	Gateway      ObjectGateway
	StatCache    *storage.StatCache
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewDocumentService builds the service.
func NewDocumentService(deps DocumentDependencies) *DocumentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		docs:       deps.DocumentRepo,
		categories: deps.CategoryRepo,
		users:      deps.UserRepo,
		gateway:    deps.Gateway,
		stats:      deps.StatCache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// UploadInput carries a new document and its payload stream.
type UploadInput struct {
	File        io.Reader
	FileName    string
	SizeBytes   int64
	ContentType string
	Title       string
	Description string
	CategoryID  *string
}

// UpdateInput carries mutable metadata; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	CategoryID  *string
}

// List returns all documents, newest first. Open to anonymous callers.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docs.List(ctx)
}

// Get returns a single document's metadata.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.fetch(ctx, id)
}

// Upload streams the payload into storage under a fresh key, then records the
// document with the caller as its immutable owner.
func (s *DocumentService) Upload(ctx context.Context, callerID string, input UploadInput) (*domain.Document, error) {
	if input.File == nil {
		return nil, apperrors.NewValidationError("no file provided", nil)
	}

	// The owner account must still exist; tokens outlive account deletion.
	if _, err := s.users.GetByID(ctx, callerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("account no longer exists")
		}
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("category not found", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, err
		}
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = storage.DefaultContentType
	}

	key, err := s.gateway.Put(ctx, input.File, input.SizeBytes, contentType, callerID, input.FileName)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		Title:       input.Title,
		Description: input.Description,
		StorageKey:  key,
		ContentType: contentType,
		SizeBytes:   input.SizeBytes,
		OwnerID:     callerID,
		CategoryID:  input.CategoryID,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		// the object is orphaned otherwise
		if rmErr := s.gateway.Remove(ctx, key); rmErr != nil {
			s.logger.Warn("orphaned object cleanup failed", zap.String("key", key), zap.Error(rmErr))
		}
		return nil, err
	}

	s.publish(ctx, events.EventDocumentCreated, doc.ID, callerID, events.DocumentCreatedPayload{
		Title:       doc.Title,
		StorageKey:  doc.StorageKey,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
	})
	return doc, nil
}

// Download resolves the document and opens its payload stream together with
// the metadata recorded at upload time. The caller owns the stream.
func (s *DocumentService) Download(ctx context.Context, id string) (*domain.Document, storage.ObjectInfo, io.ReadCloser, error) {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, err
	}

	info, ok := s.stats.Get(ctx, doc.StorageKey)
	if !ok {
		info, err = s.gateway.Stat(ctx, doc.StorageKey)
		if err != nil {
			return nil, storage.ObjectInfo{}, nil, err
		}
		s.stats.Set(ctx, doc.StorageKey, info)
	}

	stream, err := s.gateway.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, err
	}
	return doc, info, stream, nil
}

// Update mutates document metadata. Only the owner may update; the existence
// check runs first so probing a missing id never reveals ownership.
func (s *DocumentService) Update(ctx context.Context, callerID, id string, input UpdateInput) (*domain.Document, error) {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeMutation(doc.OwnerID, callerID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		doc.Title = *input.Title
	}
	if input.Description != nil {
		doc.Description = *input.Description
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("category not found", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, err
		}
		doc.CategoryID = input.CategoryID
	}

	if err := s.docs.Update(ctx, doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("document", map[string]any{"id": id})
		}
		return nil, err
	}

	s.publish(ctx, events.EventDocumentUpdated, doc.ID, callerID, events.DocumentUpdatedPayload{Title: doc.Title})
	return doc, nil
}

// Delete removes the record and then the stored object, owner only. Object
// removal is best effort: the record is gone either way and a leaked object
// is preferable to a dangling record.
func (s *DocumentService) Delete(ctx context.Context, callerID, id string) error {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeMutation(doc.OwnerID, callerID); err != nil {
		return err
	}

	if err := s.docs.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("document", map[string]any{"id": id})
		}
		return err
	}

	if err := s.gateway.Remove(ctx, doc.StorageKey); err != nil {
		s.logger.Warn("stored object removal failed", zap.String("key", doc.StorageKey), zap.Error(err))
	}
	s.stats.Invalidate(ctx, doc.StorageKey)

	s.publish(ctx, events.EventDocumentDeleted, doc.ID, callerID, events.DocumentDeletedPayload{StorageKey: doc.StorageKey})
	return nil
}

func (s *DocumentService) fetch(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("document", map[string]any{"id": id})
		}
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) publish(ctx context.Context, eventType events.EventType, docID, actorID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		DocumentID: docID,
		ActorID:    actorID,
		Timestamp:  time.Now(),
		Payload:    payload,
	})
}
