package controllers

import (
	"finsight/services"
	"finsight/types"
	"finsight/utils/helpers"
	"net/http"

	"github.com/gin-gonic/gin"
)

const previewRunes = 500

type FileControllerI interface {
	Inspect(ctx *gin.Context)
}

type fileController struct {
	ingest services.IngestServiceI
}

func NewFileController(ingest services.IngestServiceI) FileControllerI {
	return &fileController{ingest: ingest}
}

// Inspect runs ingestion only, so a client can check what would be sent for analysis.
// With content=true the full payload is returned and can be posted back to /analyze.
func (f *fileController) Inspect(ctx *gin.Context) {
	upload, err := readUpload(ctx, f.ingest.MaxFileBytes())
	if err != nil {
		respondError(ctx, err)
		return
	}

	fd, err := f.ingest.Ingest(ctx.Request.Context(), upload)
	if err != nil {
		respondError(ctx, err)
		return
	}

	resp := gin.H{
		"name":         fd.Name,
		"mimeType":     fd.MIMEType,
		"encoding":     fd.Encoding,
		"originalSize": upload.Size,
		"size":         len(fd.Content),
	}
	if fd.Encoding == types.EncodingText {
		resp["preview"] = helpers.Truncate(fd.Content, previewRunes)
	}
	if ctx.Query("content") == "true" {
		resp["fileData"] = fd
	}

	ctx.JSON(http.StatusOK, resp)
}
