// Package validation checks configuration structs, HTTP request bodies and
// command-line arguments.
//
// Struct validation runs go-playground/validator over `validate` tags and
// adds the label_format tag for speaker label patterns. The fluent Validator
// collects field errors for values that do not live in a struct.
//
//	err := validation.New().
//	    Required("url", url).
//	    URL("url", url).
//	    NonNegative("trim", trim).
//	    Err()
//
// Both forms return an INVALID_INPUT AppError whose details list every
// failing field.
package validation
