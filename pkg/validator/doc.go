// Package validator implements form field validation for interactive input.
//
// A Form holds named fields in registration order. Each field carries its
// value, the rules that apply to it, the messages of the rules that failed on
// the last validation and two flags: Touched (validated or explicitly touched)
// and Valid (no errors on the last validation).
//
//	form := validator.NewForm(validator.WithTranslator(tr.TranslateMessage))
//	form.Register("password", "", validator.Required(), validator.Password())
//	form.Register("confirm", "", validator.Required(), validator.ConfirmPassword("password"))
//
//	form.SetValue("password", "Secret123")
//	form.SetValue("confirm", "Secret123")
//	if !form.ValidateAll() {
//		return form.Err() // validator.ValidationErrors
//	}
//
// Every rule runs on every validation, so a field reports all of its failures
// at once. Built-in rules other than Required and Custom accept empty values;
// combine them with Required when the field is mandatory.
//
// ConfirmPassword reads the other field through the form at validation time,
// so the order in which fields are registered does not matter.
//
// IsValid treats a field with rules that was never touched as not valid yet.
// ValidateAll touches every field, so a submit fails on fields the user never
// edited.
package validator
