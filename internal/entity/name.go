package entity

import "github.com/go-playground/validator/v10"

const DefaultName = "Anonymous"

var validate = validator.New()

// NormalizeName - returns the name if it is 3-20 ASCII letters or digits, otherwise DefaultName.
func NormalizeName(name string) string {
	if err := validate.Var(name, "required,alphanum,min=3,max=20"); err != nil {
		return DefaultName
	}
	return name
}
