package api

// SelfValidator is implemented by request types that validate themselves.
// It runs after the tag rules pass.
type SelfValidator interface {
	Validate() error
}

// Validator validates any request. Set one router-wide with WithValidator.
type Validator interface {
	Validate(req any) error
}

// Enum is implemented by closed string sets. Fields of an Enum type are
// restricted to EnumValues without needing an enum tag, and the values are
// published in the OpenAPI schema.
type Enum interface {
	EnumValues() []string
}
