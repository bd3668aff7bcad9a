package handle

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/ctsync/ctsync/internal/util"
	"github.com/ctsync/ctsync/pkg/log"
	"github.com/ctsync/ctsync/server/tables"
	"github.com/ctsync/ctsync/storage"
	"github.com/gin-gonic/gin"
)

// Content proxies stored evidence to the browser, walking the gateway
// fallback chain server-side so every render sees one stable URL. It
// validates the request parameters and calls the doContent function.
func (h *Handler) Content(ctx *gin.Context) {
	reference := ctx.Param("reference")
	if reference == "" {
		ctx.Status(http.StatusBadRequest)
		return
	}
	if err := h.doContent(ctx, reference); err != nil {
		ctx.Status(http.StatusInternalServerError)
		return
	}
}

func (h *Handler) doContent(ctx *gin.Context, reference string) error {
	ref := storage.ParseReference(reference)

	// Content-addressed bodies are immutable, so a cache hit never needs
	// revalidation.
	if hash := ref.Hash(); hash != "" {
		cached, err := h.DB().GetContentByHash(hash)
		if err != nil {
			return err
		}
		if cached.Id > 0 {
			return h.serveCached(ctx, &cached)
		}
	}

	body, contentType, err := h.Resolver().Fetch(ctx.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, storage.ErrContentUnavailable) {
			// Terminal unavailable state, not a server fault.
			ctx.Status(http.StatusBadGateway)
			return nil
		}
		return err
	}

	if hash := ref.Hash(); hash != "" {
		compressed := &bytes.Buffer{}
		writer := brotli.NewWriter(compressed)
		_, err := writer.Write(body)
		if err == nil {
			err = writer.Close()
		}
		if err != nil {
			log.Srv.Errorw("content cache skipped, compress failed", "hash", hash, "err", err)
		} else if err := h.DB().SaveContent(&tables.ContentCache{
			Hash:            hash,
			ContentType:     contentType,
			ContentEncoding: "br",
			Body:            compressed.Bytes(),
		}); err != nil {
			log.Srv.Errorw("content cache write failed", "hash", hash, "err", err)
		}
	}

	ctx.Header("Cache-Control", "public, max-age=1209600, immutable")
	ctx.Data(http.StatusOK, contentType, body)
	return nil
}

// serveCached returns a cached body, honoring the client's Accept-Encoding
// and decompressing otherwise.
func (h *Handler) serveCached(ctx *gin.Context, cached *tables.ContentCache) error {
	ctx.Header("Cache-Control", "public, max-age=1209600, immutable")

	if len(cached.Body) == 0 {
		ctx.Status(http.StatusOK)
		return nil
	}
	if cached.ContentEncoding != "" {
		if util.AcceptsEncoding(ctx.Request.Header.Get("Accept-Encoding"), cached.ContentEncoding) {
			ctx.Header("Content-Encoding", cached.ContentEncoding)
			ctx.Data(http.StatusOK, cached.ContentType, cached.Body)
			return nil
		}
		if cached.ContentEncoding == "br" {
			decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(cached.Body)))
			if err != nil {
				return err
			}
			ctx.Data(http.StatusOK, cached.ContentType, decompressed)
			return nil
		}
		ctx.Status(http.StatusNotAcceptable)
		return nil
	}
	ctx.Data(http.StatusOK, cached.ContentType, cached.Body)
	return nil
}
