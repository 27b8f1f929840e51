package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"foodlog/internal/flow"
	"foodlog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	formFileField = "file"

	// multipart/JSON framing allowance on top of the image limit
	bodyOverhead = 64 << 10

	errMissingFile   = "missing form field 'file'"
	errReadFile      = "failed to read uploaded file"
	errImageTooLarge = "image exceeds the size limit"
	errInvalidBase64 = "invalid body: data must be base64"
	errPreviewGone   = "capture screen was left before the image was ready"
	errNoImage       = "no image selected"
)

// DropImageRequest is the drag-and-drop payload.
type DropImageRequest struct {
	// Original file name
	Name string `json:"name" example:"lunch.png"`
	// Declared media type; sniffed from the bytes when empty
	Type string `json:"type" example:"image/png"`
	// File bytes, standard base64
	Data string `json:"data" binding:"required"`
}

// @Summary      Pick an image
// @Description  Multipart upload (field "file"). Non-image files are rejected with 422 and a notification.
// @Tags         image
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image file"
// @Success      200  {object}  map[string]interface{}  "status, preview, session"
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/v1/session/image [post]
// @Security     BearerAuth
func (h *Handler) uploadImage(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageBytes+bodyOverhead)

	fh, err := c.FormFile(formFileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errImageTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingFile})
		return
	}
	if fh.Size > h.maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errImageTooLarge})
		return
	}

	src, err := fh.Open()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errReadFile, "upload_open_failed", err)
		return
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(io.LimitReader(src, h.maxImageBytes+1))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errReadFile, "upload_read_failed", err)
		return
	}
	if int64(len(data)) > h.maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errImageTooLarge})
		return
	}

	h.acceptFile(c, f, &flow.ImageFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
}

// @Summary      Drop an image
// @Description  Drag-and-drop entry point; behaves exactly like the multipart upload for the same file.
// @Tags         image
// @Accept       json
// @Produce      json
// @Param        payload  body  DropImageRequest  true  "Dropped file"
// @Success      200  {object}  map[string]interface{}  "status, preview, session"
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/v1/session/image/drop [post]
// @Security     BearerAuth
func (h *Handler) dropImage(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	// base64 inflates by 4/3
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageBytes/3*4+bodyOverhead)

	var req DropImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errImageTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.Data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBase64})
		return
	}
	if int64(len(data)) > h.maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errImageTooLarge})
		return
	}

	h.acceptFile(c, f, &flow.ImageFile{
		Name:        req.Name,
		ContentType: req.Type,
		Data:        data,
	})
}

// acceptFile hands file to the flow and waits for the preview to be published.
func (h *Handler) acceptFile(c *gin.Context, f service.Flow, file *flow.ImageFile) {
	ready, err := f.ProcessFile(file)
	if err != nil {
		h.respondFlowError(c, "process_file_failed", err)
		return
	}

	select {
	case img, ok := <-ready:
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": errPreviewGone})
			return
		}
		respondWithStatusAndSession(c, f, statusPreview, gin.H{"preview": img})
	case <-c.Request.Context().Done():
		// client went away; the flow still publishes the preview
		c.Status(http.StatusRequestTimeout)
	}
}

// @Summary      Preview bytes
// @Description  Serves the selected image (on CAPTURE) or the analyzed image (PROCESSING, RESULTS).
// @Tags         image
// @Produce      image/png,image/jpeg,image/webp,image/gif
// @Success      200  {file}  binary
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/session/image [get]
// @Security     BearerAuth
func (h *Handler) getImage(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	snap := f.Snapshot()
	img := snap.Preview
	if img == nil {
		img = snap.Image
	}
	if img == nil || img.IsEmpty() {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoImage})
		return
	}

	mimeType, data, err := flow.DecodeDataURI(img.DataURI)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to decode image", "image_decode_failed", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Header("X-Image-Fingerprint", img.Fingerprint)
	if img.Name != "" {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", img.Name))
	}
	c.Data(http.StatusOK, mimeType, data)
}
