package v1

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// multipartMemory is how much of a form is buffered in memory before spilling to temp files.
const multipartMemory = 8 << 20

type DocumentHandler struct {
	documentUC domain.DocumentUsecase
	maxBody    int64
}

// NewDocumentHandler registers document routes. maxFileSize bounds the whole
// request to one full batch of maximum-size files.
func NewDocumentHandler(protected *gin.RouterGroup, documentUC domain.DocumentUsecase, maxFileSize int64, uploadLimiter gin.HandlerFunc) {
	total := 0
	for _, n := range domain.DocumentFieldLimits {
		total += n
	}
	handler := &DocumentHandler{
		documentUC: documentUC,
		maxBody:    maxFileSize*int64(total) + 1<<20,
	}

	documents := protected.Group("/documents")
	{
		documents.POST("/upload", uploadLimiter, handler.Upload)
		documents.GET("", handler.List)
	}
}

type UploadResponse struct {
	Message   string            `json:"message"`
	Documents []domain.Document `json:"documents"`
}

// Upload godoc
// @Summary      Upload documents
// @Description  Replaces the caller's whole document set with this batch.
// @Description  Fields: resume, coverLetter, idCopy, portfolio (1 file each), academicCertificates (up to 10).
// @Description  Allowed types: jpeg, jpg, png, gif, pdf, doc, docx, txt. 10 MB per file.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        resume                formData  file  false  "Resume"
// @Param        coverLetter           formData  file  false  "Cover letter"
// @Param        academicCertificates  formData  file  false  "Academic certificates"
// @Param        idCopy                formData  file  false  "ID copy"
// @Param        portfolio             formData  file  false  "Portfolio"
// @Success      200  {object}  UploadResponse
// @Failure      400  {object}  response.ErrorBody
// @Router       /documents/upload [post]
// @Security     BearerAuth
func (h *DocumentHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.Error(apperror.UploadRejected("Upload too large"))
		case errors.Is(err, http.ErrNotMultipart):
			c.Error(apperror.BadRequest("Expected multipart/form-data"))
		default:
			c.Error(apperror.BadRequest("Malformed multipart form"))
		}
		return
	}
	defer c.Request.MultipartForm.RemoveAll()

	files, err := uploadFiles(c.Request.MultipartForm)
	if err != nil {
		c.Error(err)
		return
	}

	docs, err := h.documentUC.UploadBatch(c.Request.Context(), currentUserID(c), files)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, UploadResponse{Message: "Documents uploaded successfully", Documents: docs})
}

// List godoc
// @Summary      List my documents
// @Tags         documents
// @Produce      json
// @Success      200  {array}   domain.Document
// @Router       /documents [get]
// @Security     BearerAuth
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documentUC.ListDocuments(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, domain.NonNil(docs))
}

// uploadFiles flattens the form into upload files in field order, rejecting
// file parts under names that are not document fields.
func uploadFiles(form *multipart.Form) ([]domain.UploadFile, error) {
	for field := range form.File {
		if _, ok := domain.DocumentFieldLimits[field]; !ok {
			return nil, apperror.UploadRejected("Unexpected field: " + field)
		}
	}

	var files []domain.UploadFile
	for _, field := range domain.DocumentFields {
		for _, fh := range form.File[field] {
			fh := fh
			files = append(files, domain.UploadFile{
				Field:       field,
				FileName:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Open: func() (io.ReadCloser, error) {
					return fh.Open()
				},
			})
		}
	}
	return files, nil
}
