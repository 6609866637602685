package datajud

import (
	"fmt"
	"regexp"
	"strings"

	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
)

// CNJ unified numbering: NNNNNNN-DD.AAAA.J.TR.OOOO (20 digits total).
const numberDigits = 20

var (
	formattedNumberPattern = regexp.MustCompile(`^\d{7}-\d{2}\.\d{4}\.\d{1}\.\d{2}\.\d{4}$`)
	nonDigitPattern        = regexp.MustCompile(`\D`)
)

// courtAliasByCode maps the TR segment (digits 14-16) of a CNJ number onto
// the DataJud search-partition alias for the state court.
var courtAliasByCode = map[string]string{
	"01": "tjac",
	"02": "tjal",
	"03": "tjam",
	"04": "tjap",
	"05": "tjba",
	"06": "tjce",
	"07": "tjdft",
	"08": "tjes",
	"09": "tjgo",
	"10": "tjma",
	"11": "tjmt",
	"12": "tjms",
	"13": "tjmg",
	"14": "tjpa",
	"15": "tjpb",
	"16": "tjpe",
	"17": "tjpi",
	"18": "tjpr",
	"19": "tjrj",
	"20": "tjrn",
	"21": "tjro",
	"22": "tjrr",
	"23": "tjrs",
	"24": "tjsc",
	"25": "tjsp",
	"26": "tjse",
	"27": "tjto",
}

const defaultCourtAlias = "tjsp"

// fallbackCourts is probed in order when the mapped partition has no hit.
var fallbackCourts = []string{
	"tjsp", "tjrj", "tjmg", "tjrs", "tjpr", "tjsc", "tjba", "tjce", "tjpe", "tjgo",
}

// partySearchCourts bounds the party-name fan-out to the highest-traffic
// state courts.
var partySearchCourts = []string{
	"tjsp", "tjrj", "tjmg", "tjrs", "tjpr", "tjsc", "tjba",
}

// FormatNumber canonicalizes raw input into the hyphenated CNJ form. Any
// punctuation is tolerated on input; anything other than exactly 20 digits
// is rejected.
func FormatNumber(raw string) (string, error) {
	digits := nonDigitPattern.ReplaceAllString(raw, "")
	if len(digits) != numberDigits {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("process number must have %d digits, got %d", numberDigits, len(digits)))
	}
	return fmt.Sprintf("%s-%s.%s.%s.%s.%s",
		digits[0:7], digits[7:9], digits[9:13], digits[13:14], digits[14:16], digits[16:20]), nil
}

// ValidateNumber reports whether the input is a plausible CNJ number, either
// already formatted or as a bare 20-digit string.
func ValidateNumber(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if formattedNumberPattern.MatchString(trimmed) {
		return true
	}
	digits := nonDigitPattern.ReplaceAllString(trimmed, "")
	return len(digits) == numberDigits
}

// CourtAliasFor extracts the TR segment from a 20-digit number and resolves
// the DataJud partition alias, defaulting to tjsp for unknown codes.
func CourtAliasFor(raw string) string {
	digits := nonDigitPattern.ReplaceAllString(raw, "")
	if len(digits) != numberDigits {
		return defaultCourtAlias
	}
	if alias, ok := courtAliasByCode[digits[14:16]]; ok {
		return alias
	}
	return defaultCourtAlias
}
