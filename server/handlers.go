package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chaos-io/cutout/compose"
	"github.com/gin-gonic/gin"
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
}

func allowedFile(filename string) bool {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return ext != "" && allowedExtensions[strings.ToLower(ext)]
}

// removeBackground takes a multipart upload in the "image" field and answers
// with the cut-out foreground as a PNG data URL.
func (s *Server) removeBackground(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, err)
			return
		}
		badRequest(c, "No image uploaded")
		return
	}
	if fh.Filename == "" {
		badRequest(c, "No image selected")
		return
	}
	if !allowedFile(fh.Filename) {
		badRequest(c, "Invalid file type")
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer func() {
		_ = f.Close()
	}()
	raw, err := io.ReadAll(f)
	if err != nil {
		s.fail(c, err)
		return
	}

	p, err := s.extractor.ExtractPayload(c.Request.Context(), raw)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.save("extract", p)
	success(c, p)
}

type applyRequest struct {
	Image           string `json:"image"`
	BackgroundType  string `json:"backgroundType"`
	BackgroundValue string `json:"backgroundValue"`
	Format          string `json:"format"`
}

// applyBackground composites a previously extracted foreground over a color
// or image background.
func (s *Server) applyBackground(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, err)
			return
		}
		badRequest(c, "No JSON payload")
		return
	}
	if req.Image == "" {
		s.fail(c, &compose.Error{Kind: compose.KindInvalidEncoding, Msg: "No image provided"})
		return
	}

	fg, err := compose.DecodePayload(req.Image)
	if err != nil {
		s.fail(c, err)
		return
	}
	bg, err := compose.ParseBackground(req.BackgroundType, req.BackgroundValue)
	if err != nil {
		s.fail(c, err)
		return
	}

	p, err := s.compositor.CompositeBytes(c.Request.Context(), fg, bg, compose.ParseFormat(req.Format))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.save("composite", p)
	success(c, p)
}
