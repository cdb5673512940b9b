package cache

import (
	"bytes"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"newsroom/common"
)

const jsonContentType = "application/json; charset=utf-8"

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware serves cached page contexts and stores fresh successful ones.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || !isPagePath(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := c.Request.URL.Path + "?" + c.Request.URL.RawQuery

		if cached, found := s.Read(key); found {
			common.CacheLookups.WithLabelValues("hit").Inc()
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, jsonContentType, cached)
			c.Abort()
			return
		}

		common.CacheLookups.WithLabelValues("miss").Inc()
		c.Header("X-Cache", "MISS")

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
		}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK &&
			c.Writer.Header().Get("Content-Type") == jsonContentType {
			if err := s.Write(key, writer.body.Bytes()); err != nil {
				log.Printf("[Cache] write %s: %v", key, err)
			}
		}
	}
}

// isPagePath reports whether path is served by the page tree.
func isPagePath(path string) bool {
	return strings.HasPrefix(path, "/pages/")
}
