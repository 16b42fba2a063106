package document

import (
	"fmt"
	"strings"
	"time"
)

// GenerateNumber builds a document number like SOP-PV-20260829. The category
// is optional.
func GenerateNumber(prefix, category string, at time.Time) string {
	if prefix == "" {
		prefix = "SOP"
	}

	stamp := at.Format("20060102")
	if category == "" {
		return fmt.Sprintf("%s-%s", prefix, stamp)
	}

	return fmt.Sprintf("%s-%s-%s", prefix, strings.ToUpper(category), stamp)
}
