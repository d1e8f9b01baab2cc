package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/course-catalog/internal/model"
	"github.com/stemsi/course-catalog/internal/response"
	"github.com/stemsi/course-catalog/internal/service"
)

// multipartOverhead is headroom for boundaries and part headers on top of
// the file size limit.
const multipartOverhead = 64 << 10

// IngestHandler handles catalog CSV uploads.
type IngestHandler struct {
	ingestService  *service.IngestService
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingestService *service.IngestService, maxUploadBytes int64, log zerolog.Logger) *IngestHandler {
	return &IngestHandler{
		ingestService:  ingestService,
		maxUploadBytes: maxUploadBytes,
		log:            log.With().Str("component", "ingest_handler").Logger(),
	}
}

// IngestCSV godoc
// POST /api/ingest
// Upserts every row of the uploaded CSV in one transaction.
func (h *IngestHandler) IngestCSV(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(filepath.Base(header.Filename)), ".csv") {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}
	if header.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}

	inserted, err := h.ingestService.Ingest(c.Request.Context(), file)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info().
		Str("file", filepath.Base(header.Filename)).
		Int("inserted", inserted).
		Msg("CSV ingested")

	response.Success(c, http.StatusOK, model.IngestResponse{Inserted: inserted})
}

func (h *IngestHandler) fail(c *gin.Context, err error) {
	var missing *service.MissingColumnError
	var rowErr *service.RowError

	switch {
	case errors.As(err, &missing):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrMissingColumn, missing.Error())
	case errors.As(err, &rowErr):
		response.FailWith(c, http.StatusBadRequest, response.ErrorBody{
			Code:    response.ErrInvalidRow,
			Message: rowErr.Error(),
			Fields:  rowErr.Fields,
			Row:     rowErr.Row,
		})
	case errors.Is(err, service.ErrEmptyCSV), errors.Is(err, service.ErrMalformedCSV):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidCSV, err.Error())
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
