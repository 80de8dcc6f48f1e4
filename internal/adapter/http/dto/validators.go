package dto

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"kiosk-settlement/pkg/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	deviceIDRe = regexp.MustCompile(`^[A-Za-z0-9_\-\.]{1,64}$`)
	publicIDRe = regexp.MustCompile(`^pay_[0-9A-F]{12}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("device_id", validateDeviceID)
		_ = v.RegisterValidation("public_id", validatePublicID)
	}
}

// jsonFieldName makes validation errors name the JSON field the client sent.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

// validateDeviceID allows 1-64 alphanumeric, underscore, dash and dot characters.
func validateDeviceID(fl validator.FieldLevel) bool {
	return deviceIDRe.MatchString(fl.Field().String())
}

func validatePublicID(fl validator.FieldLevel) bool {
	return publicIDRe.MatchString(fl.Field().String())
}

// IsDeviceID reports whether s is an acceptable device identifier.
func IsDeviceID(s string) bool {
	return deviceIDRe.MatchString(s)
}

// IsPublicID reports whether s has the shape of an invoice public id.
func IsPublicID(s string) bool {
	return publicIDRe.MatchString(s)
}

// BindError converts a binding failure into a VAL_001 error naming the
// first offending field.
func BindError(err error) *apperror.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.Validation(fe.Field(), describeTag(fe))
	}
	return apperror.Validation("body", "malformed JSON")
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "device_id":
		return "must be 1-64 letters, digits, '_', '-' or '.'"
	case "public_id":
		return "is not a valid invoice id"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer. Fields tagged
// `sanitize:"trim"` are only trimmed: they are free text stored as typed,
// so their length limit holds, and JSON encoding escapes them on output.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		clean := sanitize
		if rt.Field(i).Tag.Get("sanitize") == "trim" {
			clean = strings.TrimSpace
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(clean(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			if elem := f.Elem(); elem.Kind() == reflect.String {
				elem.SetString(clean(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
