package utils

import (
	"careerhub/cmd/internal/utils/apierror"
	"errors"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/labstack/gommon/log"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	invalidPwd    *types.InvalidPasswordException
	userExists    *types.UsernameExistsException
	userNotFound  *types.UserNotFoundException
	notConfirmed  *types.UserNotConfirmedException
	notAuthorized *types.NotAuthorizedException
	codeMismatch  *types.CodeMismatchException
	expiredCode   *types.ExpiredCodeException
	invalidParam  *types.InvalidParameterException
	tooMany       *types.TooManyRequestsException
	tooManyFailed *types.TooManyFailedAttemptsException
	limitExceeded *types.LimitExceededException
)

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

// CheckFileExt returns the lowercase extension of fileName, without the dot,
// and whether it is one of valid.
func CheckFileExt(fileName string, valid []string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return "", false
	}
	return ext[1:], slices.Contains(valid, ext[1:])
}

// CharCount counts the runes of s after trimming surrounding whitespace.
func CharCount(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func MapCognitoError(err error) apierror.ErrorResponse {
	switch {
	case errors.As(err, &invalidPwd):
		return apierror.IDPInvalidPasswordError
	case errors.As(err, &userExists):
		return apierror.IDPExistingEmailError
	case errors.As(err, &userNotFound):
		return apierror.IDPUserNotFoundError
	case errors.As(err, &notConfirmed):
		return apierror.IDPUserNotConfirmedError
	case errors.As(err, &notAuthorized):
		return apierror.IDPCredentialsMismatchError
	case errors.As(err, &codeMismatch):
		return apierror.IDPConfirmCodeMismatchError
	case errors.As(err, &expiredCode):
		return apierror.IDPConfirmCodeExpiredError
	case errors.As(err, &invalidParam):
		return apierror.IDPInvalidParameterError
	case errors.As(err, &tooMany), errors.As(err, &tooManyFailed), errors.As(err, &limitExceeded):
		return apierror.IDPTooManyRequestsError
	default:
		// Log the original underlying error for debugging purposes
		log.Errorf("unmapped cognito error: %v", err)
		return apierror.InternalServerError
	}
}

func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.String {
				field.Elem().SetString(sanitizeString(field.Elem().String()))
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
