package report

import "errors"

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrInvalidType      = errors.New("invalid report type")
	ErrInvalidFormat    = errors.New("invalid report format")
	ErrReportNotReady   = errors.New("report has no payload to download")
	ErrGenerationFailed = errors.New("report generation failed")
)
