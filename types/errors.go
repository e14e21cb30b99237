package types

import (
	"errors"
	"net/http"
)

// ErrorKind classifies failures of an analysis attempt.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindIngestion         ErrorKind = "ingestion"
	KindEmptyResponse     ErrorKind = "empty_response"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindService           ErrorKind = "service"
	KindBusy              ErrorKind = "busy"
	KindNotFound          ErrorKind = "not_found"
)

// User-facing messages. Users of the dashboard read Thai.
const (
	MsgUnsupportedType  = "ไม่รองรับไฟล์ประเภทนี้ กรุณาอัปโหลดรูปภาพ (JPEG, PNG, WEBP), PDF, Excel หรือ CSV"
	MsgFileTooLarge     = "ไฟล์มีขนาดใหญ่เกินไป (สูงสุด 10MB)"
	MsgEmptyFile        = "ไฟล์ว่างเปล่า กรุณาเลือกไฟล์ใหม่"
	MsgSpreadsheet      = "ไม่สามารถอ่านไฟล์ Excel ได้ ไฟล์อาจเสียหายหรือมีการตั้งรหัสผ่าน"
	MsgCSVEncoding      = "ไม่สามารถอ่านไฟล์ CSV ได้ กรุณาตรวจสอบการเข้ารหัสไฟล์ (UTF-8)"
	MsgImage            = "ไม่สามารถประมวลผลรูปภาพได้ กรุณาตรวจสอบไฟล์"
	MsgEmptyResponse    = "ไม่ได้รับข้อมูลตอบกลับจาก AI กรุณาลองใหม่อีกครั้ง"
	MsgMalformed        = "AI ส่งข้อมูลกลับมาในรูปแบบที่ไม่ถูกต้อง กรุณาลองใหม่อีกครั้ง"
	MsgService          = "เกิดข้อผิดพลาดในการเชื่อมต่อ หรือไฟล์มีขนาดใหญ่/ซับซ้อนเกินไป กรุณาลองใหม่อีกครั้ง"
	MsgSessionBusy      = "กำลังวิเคราะห์ไฟล์ก่อนหน้าอยู่ กรุณารอสักครู่"
	MsgSessionNotFound  = "ไม่พบเซสชันการวิเคราะห์ หรือเซสชันหมดอายุแล้ว"
	MsgResultNotFound   = "ยังไม่มีผลการวิเคราะห์ในเซสชันนี้"
	MsgNoEntityData     = "ไม่มีข้อมูลสำหรับหน่วยงานนี้"
	MsgInvalidParameter = "พารามิเตอร์ไม่ถูกต้อง"
)

// AnalysisError is a classified failure. Message is safe to show to end users;
// Err keeps the technical cause for logs.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *AnalysisError) Unwrap() error { return e.Err }

func NewError(kind ErrorKind, message string, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindService for anything unclassified.
func KindOf(err error) ErrorKind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindService
}

// UserMessage collapses err into the single message shown to the user.
// Only the specifically raised kinds keep their own text.
func UserMessage(err error) string {
	var ae *AnalysisError
	if errors.As(err, &ae) && ae.Kind != KindService && ae.Message != "" {
		return ae.Message
	}
	return MsgService
}

// HTTPStatus maps err to the response status used by the API.
func HTTPStatus(err error) int {
	var ae *AnalysisError
	if !errors.As(err, &ae) {
		return http.StatusBadGateway
	}
	switch ae.Kind {
	case KindValidation:
		switch ae.Message {
		case MsgFileTooLarge:
			return http.StatusRequestEntityTooLarge
		case MsgUnsupportedType:
			return http.StatusUnsupportedMediaType
		}
		return http.StatusBadRequest
	case KindIngestion:
		return http.StatusUnprocessableEntity
	case KindBusy:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
