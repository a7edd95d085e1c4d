package validator

import "slices"

// Field is the live state of one registered form field.
type Field struct {
	Value      any
	Rules      []Rule
	Errors     []string
	Touched    bool
	Valid      bool
	violations []ValidationError
}

// Form is an ordered collection of named fields.
// A Form is not safe for concurrent use.
type Form struct {
	fields    map[string]*Field
	translate TranslateFunc
	order     []string
}

// FormOption configures a Form.
type FormOption func(*Form)

// WithTranslator localizes default rule messages when a field is validated.
func WithTranslator(fn TranslateFunc) FormOption {
	return func(f *Form) {
		f.translate = fn
	}
}

// NewForm returns an empty form.
func NewForm(opts ...FormOption) *Form {
	f := &Form{fields: make(map[string]*Field)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetTranslator replaces the translator used for subsequent validations.
func (f *Form) SetTranslator(fn TranslateFunc) {
	f.translate = fn
}

// Register adds a field and returns it. Registering an existing name
// replaces that field in place.
func (f *Form) Register(name string, initial any, rules ...Rule) *Field {
	field := &Field{
		Value:  initial,
		Rules:  rules,
		Errors: []string{},
		Valid:  true,
	}
	if _, ok := f.fields[name]; !ok {
		f.order = append(f.order, name)
	}
	f.fields[name] = field
	return field
}

// Validate runs every rule of the named field and reports whether all passed.
// Unknown names are vacuously valid.
func (f *Form) Validate(name string) bool {
	field, ok := f.fields[name]
	if !ok {
		return true
	}

	field.Errors = []string{}
	field.violations = nil
	field.Touched = true

	for _, rule := range field.Rules {
		if rule.Check == nil || rule.Check(field.Value, f) {
			continue
		}
		ve := rule.Error
		ve.Field = name
		ve.TranslationValues = withField(rule.Error.TranslationValues, name)
		if f.translate != nil && !rule.overridden && ve.TranslationKey != "" {
			ve.Message = f.translate(ve.TranslationKey, ve.TranslationValues)
		}
		field.Errors = append(field.Errors, ve.Message)
		field.violations = append(field.violations, ve)
	}

	field.Valid = len(field.Errors) == 0
	return field.Valid
}

// ValidateAll validates every field in registration order, touching fields
// the user never edited, and reports whether all passed.
func (f *Form) ValidateAll() bool {
	valid := true
	for _, name := range f.order {
		if !f.Validate(name) {
			valid = false
		}
	}
	return valid
}

// Clear resets errors, touched and valid state of the named fields, or of
// every field when no name is given. Values are kept. Unknown names are ignored.
func (f *Form) Clear(names ...string) {
	if len(names) == 0 {
		names = f.order
	}
	for _, name := range names {
		if field, ok := f.fields[name]; ok {
			clearField(field)
		}
	}
}

// Reset sets every field's value from values, or to "" when absent, and
// clears its state.
func (f *Form) Reset(values map[string]any) {
	for _, name := range f.order {
		field := f.fields[name]
		if v, ok := values[name]; ok {
			field.Value = v
		} else {
			field.Value = ""
		}
		clearField(field)
	}
}

// IsValid reports whether every field is either rule-less or both touched
// and valid. Untouched fields with rules count as not yet valid.
func (f *Form) IsValid() bool {
	for _, field := range f.fields {
		if len(field.Rules) == 0 {
			continue
		}
		if !field.Touched || !field.Valid {
			return false
		}
	}
	return true
}

// IsTouched reports whether any field has been touched.
func (f *Form) IsTouched() bool {
	for _, field := range f.fields {
		if field.Touched {
			return true
		}
	}
	return false
}

// Value returns the current value of a field, or nil if unknown.
func (f *Form) Value(name string) any {
	if field, ok := f.fields[name]; ok {
		return field.Value
	}
	return nil
}

// SetValue updates a field value. Touched fields are revalidated at once.
// It reports false for unknown names.
func (f *Form) SetValue(name string, v any) bool {
	field, ok := f.fields[name]
	if !ok {
		return false
	}
	field.Value = v
	if field.Touched {
		f.Validate(name)
	}
	return true
}

// FieldErrors returns a copy of the field's current error messages.
func (f *Form) FieldErrors(name string) []string {
	if field, ok := f.fields[name]; ok {
		return slices.Clone(field.Errors)
	}
	return nil
}

// HasErrors reports whether the field currently has errors.
func (f *Form) HasErrors(name string) bool {
	field, ok := f.fields[name]
	return ok && len(field.Errors) > 0
}

// Touch marks a field as touched without validating it.
func (f *Form) Touch(name string) {
	if field, ok := f.fields[name]; ok {
		field.Touched = true
	}
}

// Field returns the live field registered under name.
func (f *Form) Field(name string) (*Field, bool) {
	field, ok := f.fields[name]
	return field, ok
}

// Names returns field names in registration order.
func (f *Form) Names() []string {
	return slices.Clone(f.order)
}

// Err returns the current failures as ValidationErrors, or nil if there are none.
func (f *Form) Err() error {
	var errs ValidationErrors
	for _, name := range f.order {
		errs = append(errs, f.fields[name].violations...)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func clearField(field *Field) {
	field.Errors = []string{}
	field.violations = nil
	field.Touched = false
	field.Valid = true
}
