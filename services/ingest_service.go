package services

import (
	"context"
	"encoding/base64"
	"finsight/config"
	"finsight/types"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

// Supported MIME types
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEWEBP = "image/webp"
	MIMEPDF  = "application/pdf"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEXLS  = "application/vnd.ms-excel"
	MIMECSV  = "text/csv"
)

var supportedMIME = []string{MIMEJPEG, MIMEPNG, MIMEWEBP, MIMEPDF, MIMEXLSX, MIMEXLS, MIMECSV}

var extensionMIME = map[string]string{
	".jpg":  MIMEJPEG,
	".jpeg": MIMEJPEG,
	".png":  MIMEPNG,
	".webp": MIMEWEBP,
	".pdf":  MIMEPDF,
	".xlsx": MIMEXLSX,
	".xls":  MIMEXLS,
	".csv":  MIMECSV,
}

var mimeAliases = map[string]string{
	"image/jpg":                   MIMEJPEG,
	"image/pjpeg":                 MIMEJPEG,
	"application/csv":             MIMECSV,
	"text/comma-separated-values": MIMECSV,
	"application/x-pdf":           MIMEPDF,
}

// outputEncoding is the content encoding produced for each ingestion output type.
var outputEncoding = map[string]string{
	MIMEJPEG: types.EncodingBase64,
	MIMEPDF:  types.EncodingBase64,
	MIMEXLSX: types.EncodingText,
	MIMEXLS:  types.EncodingText,
	MIMECSV:  types.EncodingText,
}

type IngestServiceI interface {
	Ingest(ctx context.Context, upload types.Upload) (types.FileData, error)
	ValidateFile(upload types.Upload) (string, error)
	PrepareFileData(fd types.FileData) (types.FileData, error)
	MaxFileBytes() int64
}

type ingestService struct {
	cfg config.IngestConfig
}

func NewIngestService(cfg config.IngestConfig) IngestServiceI {
	return &ingestService{cfg: cfg}
}

func (s *ingestService) MaxFileBytes() int64 { return s.cfg.MaxFileBytes }

// Ingest validates an upload and turns it into the uniform payload sent to the model.
// Images are recompressed to JPEG, PDFs pass through, spreadsheets and CSV become text.
func (s *ingestService) Ingest(ctx context.Context, upload types.Upload) (types.FileData, error) {
	span := sentry.StartSpan(ctx, "[Ingest] Ingest")
	defer span.Finish()

	mimeType, err := s.ValidateFile(upload)
	if err != nil {
		span.Status = sentry.SpanStatusInvalidArgument
		return types.FileData{}, err
	}

	zap.L().Info("Ingesting file", zap.String("name", upload.Name), zap.String("mimeType", mimeType), zap.Int("bytes", len(upload.Data)))

	fd := types.FileData{Name: upload.Name, MIMEType: mimeType}
	switch mimeType {
	case MIMEJPEG, MIMEPNG, MIMEWEBP:
		out, err := normalizeImage(upload.Data, s.cfg.MaxImageDimension, s.cfg.JPEGQuality, s.cfg.MaxImagePixels)
		if err != nil {
			span.Status = sentry.SpanStatusInvalidArgument
			zap.L().Error("Error processing image", zap.String("name", upload.Name), zap.Error(err))
			return types.FileData{}, types.NewError(types.KindIngestion, types.MsgImage, err)
		}
		fd.Content = base64.StdEncoding.EncodeToString(out)
		fd.MIMEType = MIMEJPEG
		fd.Encoding = types.EncodingBase64
	case MIMEPDF:
		fd.Content = base64.StdEncoding.EncodeToString(upload.Data)
		fd.Encoding = types.EncodingBase64
	case MIMEXLSX, MIMEXLS:
		text, err := spreadsheetToText(upload.Data)
		if err != nil {
			span.Status = sentry.SpanStatusInvalidArgument
			zap.L().Error("Error parsing spreadsheet", zap.String("name", upload.Name), zap.Error(err))
			return types.FileData{}, types.NewError(types.KindIngestion, types.MsgSpreadsheet, err)
		}
		fd.Content = text
		fd.Encoding = types.EncodingText
	case MIMECSV:
		text, err := decodeCSV(upload.Data)
		if err != nil {
			span.Status = sentry.SpanStatusInvalidArgument
			zap.L().Error("Error decoding CSV", zap.String("name", upload.Name), zap.Error(err))
			return types.FileData{}, types.NewError(types.KindIngestion, types.MsgCSVEncoding, err)
		}
		fd.Content = text
		fd.Encoding = types.EncodingText
	}

	span.Status = sentry.SpanStatusOK
	return fd, nil
}

// ValidateFile checks the size and type of an upload and returns its resolved MIME type.
func (s *ingestService) ValidateFile(upload types.Upload) (string, error) {
	size := max(upload.Size, int64(len(upload.Data)))
	if size > s.cfg.MaxFileBytes {
		return "", types.NewError(types.KindValidation, types.MsgFileTooLarge,
			fmt.Errorf("file %q is %d bytes, limit %d", upload.Name, size, s.cfg.MaxFileBytes))
	}
	if len(upload.Data) == 0 {
		return "", types.NewError(types.KindValidation, types.MsgEmptyFile, fmt.Errorf("file %q is empty", upload.Name))
	}

	mimeType, ok := ResolveMIME(upload.Name, upload.MIMEType, upload.Data)
	if !ok {
		return "", types.NewError(types.KindValidation, types.MsgUnsupportedType,
			fmt.Errorf("unsupported file %q (declared %q)", upload.Name, upload.MIMEType))
	}
	return mimeType, nil
}

// PrepareFileData checks a payload submitted directly by a client, typically a re-submission
// of an earlier ingestion result.
func (s *ingestService) PrepareFileData(fd types.FileData) (types.FileData, error) {
	want, ok := outputEncoding[fd.MIMEType]
	if !ok || fd.Encoding != want {
		return types.FileData{}, types.NewError(types.KindValidation, types.MsgUnsupportedType,
			fmt.Errorf("unsupported payload %q with encoding %q", fd.MIMEType, fd.Encoding))
	}

	if fd.Encoding == types.EncodingText {
		if int64(len(fd.Content)) > s.cfg.MaxFileBytes {
			return types.FileData{}, types.NewError(types.KindValidation, types.MsgFileTooLarge, fmt.Errorf("text payload is %d bytes", len(fd.Content)))
		}
		return fd, nil
	}

	fd.Content = StripDataURL(fd.Content)
	raw, err := base64.StdEncoding.DecodeString(fd.Content)
	if err != nil {
		return types.FileData{}, types.NewError(types.KindValidation, types.MsgUnsupportedType, fmt.Errorf("invalid base64 payload: %w", err))
	}
	if int64(len(raw)) > s.cfg.MaxFileBytes {
		return types.FileData{}, types.NewError(types.KindValidation, types.MsgFileTooLarge, fmt.Errorf("payload is %d bytes", len(raw)))
	}
	return fd, nil
}

// ReadMultipartFile reads an uploaded file, refusing anything over limit before and while reading.
func ReadMultipartFile(fh *multipart.FileHeader, limit int64) (types.Upload, error) {
	if fh.Size > limit {
		return types.Upload{}, types.NewError(types.KindValidation, types.MsgFileTooLarge,
			fmt.Errorf("file %q is %d bytes, limit %d", fh.Filename, fh.Size, limit))
	}

	src, err := fh.Open()
	if err != nil {
		return types.Upload{}, fmt.Errorf("error opening uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return types.Upload{}, fmt.Errorf("error reading uploaded file: %w", err)
	}
	if int64(len(data)) > limit {
		return types.Upload{}, types.NewError(types.KindValidation, types.MsgFileTooLarge,
			fmt.Errorf("file %q exceeds %d bytes", fh.Filename, limit))
	}

	return types.Upload{
		Name:     filepath.Base(fh.Filename),
		MIMEType: fh.Header.Get("Content-Type"),
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

// ResolveMIME decides the type of an upload. The file extension wins (it is what the file
// picker filters on), then the declared type, then content sniffing.
func ResolveMIME(name, declared string, data []byte) (string, bool) {
	if m, ok := extensionMIME[strings.ToLower(filepath.Ext(name))]; ok {
		return m, true
	}

	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			mt = strings.ToLower(mt)
			if alias, ok := mimeAliases[mt]; ok {
				mt = alias
			}
			if isSupportedMIME(mt) {
				return mt, true
			}
		}
	}

	if len(data) > 0 {
		detected := mimetype.Detect(data)
		for _, m := range supportedMIME {
			if detected.Is(m) {
				return m, true
			}
		}
	}
	return "", false
}

func isSupportedMIME(m string) bool {
	for _, s := range supportedMIME {
		if s == m {
			return true
		}
	}
	return false
}

// StripDataURL removes a "data:<mime>;base64," prefix if present.
func StripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ";base64,"); i >= 0 {
		return s[i+len(";base64,"):]
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}

// decodeCSV returns the file as UTF-8 text with any byte order mark removed.
func decodeCSV(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("csv is not valid UTF-8")
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("error decoding csv: %w", err)
	}
	return string(out), nil
}
