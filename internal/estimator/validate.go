package estimator

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const nonNegativeTag = "nonnegative"

// fieldLabels gives the human name used in validation messages.
var fieldLabels = map[string]string{
	"loanAmount":         "Loan amount",
	"disbursementAmount": "Disbursement amount",
	"tuitionFee":         "Tuition fee",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so errors key the same way as inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(nonNegativeTag, nonNegative); err != nil {
		panic(fmt.Sprintf("estimator: register %q: %v", nonNegativeTag, err))
	}
	return v
}

// nonNegative accepts zero, positive values, and NaN (which the engine
// treats as zero).
func nonNegative(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return math.IsNaN(f) || f >= 0
}

// FieldErrors maps an input field name to a message describing why it was
// rejected.
type FieldErrors map[string]string

// Fields returns the rejected field names in sorted order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for f := range fe {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Error implements error.
func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, f := range fe.Fields() {
		msgs = append(msgs, fe[f])
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the guarded amounts (loan, disbursement, tuition) for
// negative values. It returns nil when the inputs are acceptable. The
// estimate can be computed either way; the caller decides whether to block.
func Validate(in Inputs) FieldErrors {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		out[fe.Field()] = label + " cannot be negative"
	}
	return out
}
