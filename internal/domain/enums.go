package domain

// FileType represents the document formats accepted for extraction.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeTIFF FileType = "tiff"
	FileTypeBMP  FileType = "bmp"
	FileTypeGIF  FileType = "gif"
)

// IsImage reports whether the file type is a raster image that must be OCRed.
func (f FileType) IsImage() bool {
	return f != FileTypePDF && f != ""
}

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeTIFF: "image/tiff",
	FileTypeBMP:  "image/bmp",
	FileTypeGIF:  "image/gif",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/tiff":      FileTypeTIFF,
	"image/bmp":       FileTypeBMP,
	"image/gif":       FileTypeGIF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"tiff": FileTypeTIFF,
	"tif":  FileTypeTIFF,
	"bmp":  FileTypeBMP,
	"gif":  FileTypeGIF,
}

// DocumentType is the closed set of document kinds the service understands.
type DocumentType string

const (
	DocumentTypeInvoice      DocumentType = "invoice"
	DocumentTypeMedicalBill  DocumentType = "medical_bill"
	DocumentTypePrescription DocumentType = "prescription"
	DocumentTypeUnknown      DocumentType = "unknown"
)

// KnownDocumentTypes lists the document types that have a schema and rule set.
var KnownDocumentTypes = []DocumentType{
	DocumentTypeInvoice,
	DocumentTypeMedicalBill,
	DocumentTypePrescription,
}

// ParseDocumentType normalizes a label to a DocumentType. Anything outside
// the closed set yields DocumentTypeUnknown.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(s) {
	case DocumentTypeInvoice, DocumentTypeMedicalBill, DocumentTypePrescription:
		return DocumentType(s)
	default:
		return DocumentTypeUnknown
	}
}

// ErrorDocType is the doc_type reported when the pipeline could not finish.
const ErrorDocType = "error"

// Pipeline failure codes placed in QAResult.FailedRules of an error report.
const (
	ErrorCodeOCRError             = "ocr_error"
	ErrorCodeOCRFailed            = "ocr_failed"
	ErrorCodeClassificationFailed = "classification_failed"
	ErrorCodeSchemaMissing        = "schema_missing"
	ErrorCodeExtractionError      = "extraction_error"
)

// ExportFormat is a tabular export format for reports.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)
