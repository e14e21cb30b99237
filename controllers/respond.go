package controllers

import (
	"errors"
	"finsight/services"
	"finsight/types"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// respondError writes the single user-visible error body for err.
func respondError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(types.HTTPStatus(err), gin.H{
		"error": types.UserMessage(err),
		"kind":  types.KindOf(err),
	})
}

// classifyBodyError turns request parsing failures into validation errors.
func classifyBodyError(err error) error {
	var ae *types.AnalysisError
	if errors.As(err, &ae) {
		return err
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return types.NewError(types.KindValidation, types.MsgFileTooLarge, err)
	}
	return types.NewError(types.KindValidation, types.MsgInvalidParameter, err)
}

// readUpload reads the multipart "file" field.
func readUpload(ctx *gin.Context, limit int64) (types.Upload, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return types.Upload{}, classifyBodyError(err)
	}
	upload, err := services.ReadMultipartFile(fh, limit)
	if err != nil {
		return types.Upload{}, classifyBodyError(err)
	}
	return upload, nil
}

// readAnalysisRequest accepts either a multipart upload or a JSON FileData payload.
func readAnalysisRequest(ctx *gin.Context, limit int64) (services.AnalysisRequest, error) {
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		upload, err := readUpload(ctx, limit)
		if err != nil {
			return services.AnalysisRequest{}, err
		}
		return services.AnalysisRequest{Upload: &upload}, nil
	}

	var fd types.FileData
	if err := ctx.ShouldBindJSON(&fd); err != nil {
		return services.AnalysisRequest{}, classifyBodyError(err)
	}
	return services.AnalysisRequest{File: &fd}, nil
}

func requestFileName(req services.AnalysisRequest) string {
	switch {
	case req.Upload != nil:
		return req.Upload.Name
	case req.File != nil:
		return req.File.Name
	}
	return ""
}
