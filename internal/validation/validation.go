// Package validation checks incoming requests and checklist documents.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/xeipuuv/gojsonschema"

	"github.com/gea/studyabroad/internal/checklist"
	"github.com/gea/studyabroad/internal/models"
)

var (
	stageTag  = "stage"
	stageText = "{0} must be one of offer, gs, coe, visa"
)

var (
	validate   = validator.New()
	translator ut.Translator
	itemSchema *gojsonschema.Schema
)

func init() {
	english := en.New()
	var found bool
	translator, found = ut.New(english, english).GetTranslator("en")
	if !found {
		panic("validation: english translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(fmt.Sprintf("validation: register default translations: %v", err))
	}

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := validate.RegisterValidation(stageTag, func(fl validator.FieldLevel) bool {
		return models.StageKey(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", stageTag, err))
	}
	err = validate.RegisterTranslation(
		stageTag, translator,
		func(t ut.Translator) error { return t.Add(stageTag, stageText, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(stageTag, fe.Field())
			return s
		},
	)
	if err != nil {
		panic(fmt.Sprintf("validation: register %q translation: %v", stageTag, err))
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(checklistSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid checklist schema: %v", err))
	}
	itemSchema = schema
}

// Errors maps a JSON field name to a human-readable message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = e[f]
	}
	return strings.Join(msgs, "; ")
}

// Struct validates s using its `validate` tags. It returns Errors when a
// rule fails.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(translator)
	}
	return out
}

// checklistSchema describes a stage's item list.
const checklistSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "item": {
      "type": "object",
      "required": ["id", "label"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "label": {"type": "string", "minLength": 1},
        "checked": {"type": "boolean"},
        "conditional": {"type": "boolean"},
        "applicable": {"type": "boolean"},
        "children": {
          "type": "array",
          "items": {"$ref": "#/definitions/item"}
        }
      },
      "additionalProperties": false
    }
  },
  "type": "array",
  "items": {"$ref": "#/definitions/item"}
}`

// ChecklistItems checks a stage's item list as sent by a client against the
// checklist schema, then decodes it and checks sibling id uniqueness. An
// empty or null document is an empty stage.
func ChecklistItems(doc []byte) ([]models.ChecklistItem, error) {
	if len(doc) == 0 || string(doc) == "null" {
		return []models.ChecklistItem{}, nil
	}

	result, err := itemSchema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("invalid checklist: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("invalid checklist: %s", strings.Join(errs, "; "))
	}

	var items []models.ChecklistItem
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, fmt.Errorf("invalid checklist: %w", err)
	}
	if err := checklist.ValidateTree(items); err != nil {
		return nil, fmt.Errorf("invalid checklist: %w", err)
	}
	return items, nil
}
