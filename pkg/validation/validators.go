package validation

import (
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"job-portal-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Letters, spaces and common name punctuation: . ' - / ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}\p{M} .'/(),-]+$`)

	// Optional leading +, then 7-15 digits once spaces, dashes and parentheses are removed
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// New returns a validator with the custom tags registered and errors keyed by json name.
func New() *validator.Validate {
	v := validator.New()
	UseJSONNames(v)
	RegisterValidators(v)
	return v
}

// UseJSONNames makes field errors report the json key instead of the Go name.
func UseJSONNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("max_current_year", MaxCurrentYear)
	_ = v.RegisterValidation("date_only", DateOnly)
}

// ValidName rejects digits and most special symbols
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(phoneSeparators.Replace(val))
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		// Supplementary planes are mostly emoji and pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) { // Symbol, other / Symbol, modifier
			return false
		}
	}
	return true
}

// MaxCurrentYear validates that a year does not exceed the current year
func MaxCurrentYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	if year == 0 {
		return true
	}
	return year <= int64(time.Now().Year())
}

// DateOnly accepts calendar dates in YYYY-MM-DD form.
func DateOnly(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := time.Parse(domain.DateLayout, val)
	return err == nil
}
