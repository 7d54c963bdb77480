package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/document-service/internal/api/dto"
	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/service"
	apperrors "github.com/spec-kit/document-service/pkg/util"
)

// DocumentsHandler manages document endpoints. Listing and reads are open to
// anonymous callers; create, update and delete require identity, with the
// ownership check living in the service.
type DocumentsHandler struct {
	service *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documentService *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{service: documentService}
}

// List GET /documents.
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	documents, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DocumentResponse, 0, len(documents))
	for i := range documents {
		items = append(items, documentResponse(&documents[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /documents/:id.
func (h *DocumentsHandler) Get(c *fiber.Ctx) error {
	doc, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": documentResponse(doc)})
}

// Download GET /documents/:id/file streams the payload with the metadata
// recorded at upload time.
func (h *DocumentsHandler) Download(c *fiber.Ctx) error {
	doc, info, stream, err := h.service.Download(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, info.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", displayName(doc)))
	// SetBodyStream takes ownership of the stream and closes it after the
	// response is written.
	c.Response().SetBodyStream(stream, int(info.Size))
	return nil
}

// Create POST /documents accepts a multipart upload.
func (h *DocumentsHandler) Create(c *fiber.Ctx) error {
	callerID, err := auth.CurrentUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("no file provided or file empty", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable file", nil)
	}
	defer file.Close()

	var categoryID *string
	if v := c.FormValue("category_id"); v != "" {
		categoryID = &v
	}

	doc, err := h.service.Upload(c.Context(), callerID, service.UploadInput{
		File:        file,
		FileName:    fileHeader.Filename,
		SizeBytes:   fileHeader.Size,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		CategoryID:  categoryID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": documentResponse(doc)})
}

// Update PUT /documents/:id, owner only.
func (h *DocumentsHandler) Update(c *fiber.Ctx) error {
	callerID, err := auth.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req dto.DocumentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	doc, err := h.service.Update(c.Context(), callerID, c.Params("id"), service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": documentResponse(doc)})
}

// Delete DELETE /documents/:id, owner only.
func (h *DocumentsHandler) Delete(c *fiber.Ctx) error {
	callerID, err := auth.CurrentUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), callerID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "document deleted"}})
}

func documentResponse(doc *domain.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		OwnerID:     doc.OwnerID,
		CategoryID:  doc.CategoryID,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func displayName(doc *domain.Document) string {
	name := strings.ReplaceAll(doc.Title, `"`, "")
	if name == "" {
		return "document"
	}
	return name
}
