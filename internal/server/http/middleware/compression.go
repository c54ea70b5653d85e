package middleware

import (
	"compress/flate"
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DecompressRequest inflates gzip or deflate request bodies. A positive limit
// caps the inflated size; reads beyond it fail like an oversized body.
func DecompressRequest(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		encoding := strings.ToLower(c.GetHeader("Content-Encoding"))

		var reader io.ReadCloser
		switch {
		case strings.Contains(encoding, "gzip"):
			gz, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			reader = gz
		case strings.Contains(encoding, "deflate"):
			reader = flate.NewReader(c.Request.Body)
		default:
			c.Next()
			return
		}

		originalBody := c.Request.Body
		defer originalBody.Close()
		defer reader.Close()

		var body io.ReadCloser = io.NopCloser(reader)
		if limit > 0 {
			body = http.MaxBytesReader(c.Writer, body, limit)
		}
		c.Request.Body = body
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
