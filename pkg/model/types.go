package model

import internalmodel "github.com/goliatone/go-novaform/internal/model"

type (
	FieldType      = internalmodel.FieldType
	ActionKind     = internalmodel.ActionKind
	ValidationRule = internalmodel.ValidationRule
	Field          = internalmodel.Field
	Action         = internalmodel.Action
	FormModel      = internalmodel.FormModel
)

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeObject  = internalmodel.FieldTypeObject
)

// Kinds of ValidationRule.
const (
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
)

const (
	ActionLocale  = internalmodel.ActionLocale
	ActionPreview = internalmodel.ActionPreview
	ActionSubmit  = internalmodel.ActionSubmit
)
