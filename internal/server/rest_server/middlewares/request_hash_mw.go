package middlewares

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/constants"
)

// digestWriter adds a Content-Digest header for each chunk written.
// Frame payloads fit in a single write, so in practice there is one.
type digestWriter struct {
	gin.ResponseWriter
}

func (w *digestWriter) Write(data []byte) (int, error) {
	hash := sha256.Sum256(data)
	w.Header().Add(constants.HeaderContentDigest, "sha-256="+hex.EncodeToString(hash[:]))
	return w.ResponseWriter.Write(data)
}

func ResponseHashMW() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Writer = &digestWriter{ResponseWriter: ctx.Writer}
		ctx.Next()
	}
}
