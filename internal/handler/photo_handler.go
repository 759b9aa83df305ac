package handler

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"

	"github.com/KeshavK2089/tnplots/internal/wizard"
)

// Stored images are bounded to fit within maxImageWidth × maxImageHeight,
// mirroring the CDN-side transformation the gallery expects.
const (
	maxImageWidth  = 1200
	maxImageHeight = 800
)

// Media is the blob store behind the upload/serve endpoints.
type Media interface {
	Upload(data []byte, filename, contentType string) (url, publicID string, err error)
	Download(publicID string) (data []byte, contentType string, err error)
}

// PhotoHandler serves the media endpoints used by the submission wizard.
type PhotoHandler struct {
	Media Media
}

func (h *PhotoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.UploadPhoto)
	rg.GET("/photos/:id", h.ServePhoto)
}

// POST /api/upload (multipart, field "file")
//
// Validates the wizard's media type and size rules server-side as a second
// line of defense, downscales oversized JPEG/PNG payloads, stores the blob
// and responds with its serving URL and storage id.
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := wizard.CheckPhoto(wizard.Photo{
		Name:        fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
	}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot open file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, wizard.MaxPhotoBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read file"})
		return
	}
	if int64(len(data)) > wizard.MaxPhotoBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s is larger than 5MB", fileHeader.Filename)})
		return
	}

	data, contentType = downscale(data, contentType)

	url, publicID, err := h.Media.Upload(data, fileHeader.Filename, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "publicId": publicID})
}

// GET /api/photos/:id
func (h *PhotoHandler) ServePhoto(c *gin.Context) {
	data, contentType, err := h.Media.Download(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// downscale re-encodes JPEG/PNG images that exceed the bounding box. Other
// image formats are stored as received.
func downscale(data []byte, contentType string) ([]byte, string) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, contentType
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxImageWidth && bounds.Dy() <= maxImageHeight {
		return data, contentType
	}

	resized := resize.Thumbnail(maxImageWidth, maxImageHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return data, contentType
		}
		return buf.Bytes(), "image/png"
	default:
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
			return data, contentType
		}
		return buf.Bytes(), "image/jpeg"
	}
}
