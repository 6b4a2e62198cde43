package assets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"lendstock-backend/internal/models"

	"gorm.io/gorm"
)

var nonAlphanumericRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// codeSuffixRe extracts the trailing 3-digit sequence from an asset code,
// e.g. "PC-005" -> 5.
var codeSuffixRe = regexp.MustCompile(`-(\d{3})$`)

// CategoryCode derives a 2-character prefix from a category name: strip
// non-alphanumerics, uppercase, take the first two characters. A single
// remaining character is padded with X; none yields XX.
func CategoryCode(category string) string {
	alphanumeric := strings.ToUpper(nonAlphanumericRe.ReplaceAllString(category, ""))
	switch {
	case len(alphanumeric) >= 2:
		return alphanumeric[:2]
	case len(alphanumeric) == 1:
		return alphanumeric + "X"
	default:
		return "XX"
	}
}

// nextCode generates the next asset code for a category. The sequence comes
// from the lexicographically greatest existing code in the category, which
// mis-sequences once a category passes 999 items; that behavior is kept.
func nextCode(db *gorm.DB, category string) (string, error) {
	prefix := CategoryCode(category)

	var latest models.Asset
	err := db.Where("category = ?", category).Order("name DESC").First(&latest).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", err
	}

	next := 1
	if err == nil {
		if m := codeSuffixRe.FindStringSubmatch(latest.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			next = n + 1
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, next), nil
}
