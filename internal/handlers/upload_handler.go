package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/httpresp"
	"github.com/BruksfildServices01/barber-manager/internal/storage"
)

type UploadHandler struct {
	uploader storage.Uploader
	maxBytes int64
}

func NewUploadHandler(uploader storage.Uploader, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = storage.MaxImageBytes
	}
	return &UploadHandler{uploader: uploader, maxBytes: maxBytes}
}

// UploadImage recebe o campo multipart "file", normaliza para webp e devolve a URL pública.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Envie a imagem no campo \"file\".")
		return
	}

	file, err := header.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "Não foi possível ler o arquivo.")
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "Não foi possível ler o arquivo.")
		return
	}

	head := body
	if len(head) > 512 {
		head = head[:512]
	}
	if err := storage.CheckImage(header.Header.Get("Content-Type"), int64(len(body)), head, h.maxBytes); err != nil {
		writeImageError(c, err)
		return
	}

	webpBytes, err := storage.Normalize(bytes.NewReader(body))
	if err != nil {
		writeImageError(c, err)
		return
	}

	url, err := h.uploader.Upload(
		c.Request.Context(),
		storage.ObjectKey("shops", time.Now()),
		"image/webp",
		webpBytes,
	)
	if err != nil {
		slog.Error("image upload failed", "error", err)
		httperr.BadGateway(c, "upload_failed", "Falha ao enviar a imagem. Tente novamente.")
		return
	}

	httpresp.Created(c, barbershop.UploadedImage{URL: url})
}

func writeImageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		httperr.BadRequest(c, "image_too_large", "A imagem deve ter no máximo 10 MB.")
	case errors.Is(err, storage.ErrNotImage):
		httperr.BadRequest(c, "not_an_image", "O arquivo enviado não é uma imagem.")
	default:
		respondError(c, err)
	}
}
