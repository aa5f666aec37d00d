package api

// Test-only exports for internal functions.
var (
	HasParamTags = hasParamTags
	HasFormTags  = hasFormTags
	HasBodyField = hasBodyField
	TagOptions   = tagOptions

	TypeToSchema        = typeToSchema
	StructToSchema      = structToSchema
	JSONFieldName       = jsonFieldName
	ApplyConstraintTags = applyConstraintTags
	ErrorResponseSchema = errorResponseSchema
	OperationID         = operationID
	ToOpenAPIPath       = toOpenAPIPath

	BodyAllowed = bodyAllowed
	RetryAfter  = retryAfter
)
