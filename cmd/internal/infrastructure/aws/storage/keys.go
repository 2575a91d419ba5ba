package storage

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Object key layout, one prefix per purpose.
const (
	logosPath  = "logos/"
	cvsPath    = "cvs/"
	flyersPath = "flyers/"
)

func LogoKey(companyID uuid.UUID, filename string) string {
	return logosPath + companyID.String() + "/" + uniqueName(filename)
}

func CVKey(opportunityID, userID uuid.UUID) string {
	return cvsPath + opportunityID.String() + "/" + userID.String() + "/" + uuid.NewString() + ".pdf"
}

func FlyerKey(opportunityID uuid.UUID, filename string) string {
	return flyersPath + opportunityID.String() + "/" + uniqueName(filename)
}

func uniqueName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}
