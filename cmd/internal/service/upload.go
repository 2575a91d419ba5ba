package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/gommon/log"
)

// checkCV rejects anything but a PDF of at most 5MB. The size and
// extension checks run before the file is opened.
func checkCV(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	if fileHeader == nil || fileHeader.Size == 0 || strings.TrimSpace(fileHeader.Filename) == "" {
		return nil, apierror.MissingFileError
	}

	if fileHeader.Size > contract.MaxCVSizeBytes {
		return nil, apierror.CVTooLargeError
	}

	if _, ok := utils.CheckFileExt(fileHeader.Filename, contract.ValidCVFileTypes); !ok {
		return nil, apierror.CVNotPDFError
	}

	data, apierr := readUploadFile(fileHeader, contract.MaxCVSizeBytes)
	if apierr != nil {
		return nil, apierr
	}

	if len(data) > contract.MaxCVSizeBytes {
		return nil, apierror.CVTooLargeError
	}

	if http.DetectContentType(data) != "application/pdf" {
		return nil, apierror.CVNotPDFError
	}
	return data, nil
}

func checkFlyer(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	if fileHeader == nil || fileHeader.Size == 0 || strings.TrimSpace(fileHeader.Filename) == "" {
		return nil, apierror.MissingFileError
	}

	if fileHeader.Size > contract.MaxFlyerSizeBytes {
		return nil, apierror.FlyerTooLargeError
	}

	if _, ok := utils.CheckFileExt(fileHeader.Filename, contract.ValidFlyerFileTypes); !ok {
		return nil, apierror.FlyerTypeError
	}

	data, apierr := readUploadFile(fileHeader, contract.MaxFlyerSizeBytes)
	if apierr != nil {
		return nil, apierr
	}

	if len(data) > contract.MaxFlyerSizeBytes {
		return nil, apierror.FlyerTooLargeError
	}
	return data, nil
}

func checkLogo(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	if fileHeader == nil || fileHeader.Size == 0 || strings.TrimSpace(fileHeader.Filename) == "" {
		return nil, apierror.MissingFileError
	}

	data, apierr := readUploadFile(fileHeader, fileHeader.Size)
	if apierr != nil {
		return nil, apierr
	}

	if len(data) == 0 {
		return nil, apierror.MissingFileError
	}
	return data, nil
}

// readUploadFile reads at most limit+1 bytes so callers can detect a
// header that understated the size.
func readUploadFile(fileHeader *multipart.FileHeader, limit int64) ([]byte, apierror.ErrorResponse) {
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open file: %v", err)
		return nil, apierror.InternalServerError
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		log.Errorf("failed to read file: %v", err)
		return nil, apierror.InternalServerError
	}
	return data, nil
}
