package validator

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// trans is the singleton English translator for validation errors.
	trans ut.Translator

	// standalone validates plain structs using the `validate` tag.
	standalone *govalidator.Validate
	setupOnce  sync.Once
)

// Setup registers the validator with English translations on Gin's binding
// engine and prepares the standalone validator. Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")

		if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
			configure(v)
		}

		standalone = govalidator.New(govalidator.WithRequiredStructEnabled())
		configure(standalone)
	})
}

// configure uses the JSON tag name for field names and registers English
// translations.
func configure(v *govalidator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = en_translations.RegisterDefaultTranslations(v, trans)
}

// BindError describes why a request body was rejected. Fields is keyed by
// JSON field name; a body that is not a JSON object at all is reported under
// "detail" with Malformed set.
type BindError struct {
	Fields    map[string]string
	Malformed bool
}

func (e *BindError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid request body: " + strings.Join(names, ", ")
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. A value of the wrong JSON type
// is reported under its field; anything else that is not a validation error
// yields a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	return translate(err).Fields
}

func translate(err error) *BindError {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return &BindError{Fields: fields}
	}

	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		fields[te.Field] = te.Field + " must be a " + jsonKind(te.Type)
		return &BindError{Fields: fields}
	}

	fields["detail"] = "request body must be valid JSON"
	return &BindError{Fields: fields, Malformed: true}
}

// jsonKind names the JSON type a Go type decodes from.
func jsonKind(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Struct, reflect.Map:
		return "object"
	}
	return "valid value"
}

// Bind binds and validates the request body into dst.
// Returns nil on success.
func Bind(c *gin.Context, dst interface{}) *BindError {
	if err := c.ShouldBindJSON(dst); err != nil {
		return translate(err)
	}
	return nil
}

// Struct validates v against its `validate` tags.
// Returns nil on success or a translated field error map on failure.
func Struct(v interface{}) map[string]string {
	Setup()
	if err := standalone.Struct(v); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
