package engine

import (
	"errors"
	"fmt"
)

// RegistrationErrorCode categorizes registration failures.
type RegistrationErrorCode string

const (
	// ErrCodeMetamodelNotFound indicates an unknown metamodel id.
	ErrCodeMetamodelNotFound RegistrationErrorCode = "METAMODEL_NOT_FOUND"

	// ErrCodeModelNotFound indicates an unknown model id.
	ErrCodeModelNotFound RegistrationErrorCode = "MODEL_NOT_FOUND"

	// ErrCodeClassNotFound indicates an unresolved class id during
	// registration or constraint CRUD.
	ErrCodeClassNotFound RegistrationErrorCode = "CLASS_NOT_FOUND"

	// ErrCodeElementNotFound indicates an unknown model element id.
	ErrCodeElementNotFound RegistrationErrorCode = "ELEMENT_NOT_FOUND"

	// ErrCodeInheritanceCycle indicates a cyclic inheritance graph detected
	// while resolving applicable constraints.
	ErrCodeInheritanceCycle RegistrationErrorCode = "INHERITANCE_CYCLE"

	// ErrCodeUnresolvedTarget indicates a reference whose target class does
	// not exist in the metamodel.
	ErrCodeUnresolvedTarget RegistrationErrorCode = "UNRESOLVED_TARGET"
)

// RegistrationError reports a failure during metamodel registration or
// constraint CRUD. Registration is an explicit, infrequent operation, so
// these errors fail loudly: they propagate to the caller instead of becoming
// validation issues.
type RegistrationError struct {
	Code        RegistrationErrorCode
	Message     string
	MetamodelID string
	ClassID     string
}

func (e *RegistrationError) Error() string {
	if e.ClassID != "" {
		return fmt.Sprintf("%s: %s (metamodel=%s, class=%s)", e.Code, e.Message, e.MetamodelID, e.ClassID)
	}
	if e.MetamodelID != "" {
		return fmt.Sprintf("%s: %s (metamodel=%s)", e.Code, e.Message, e.MetamodelID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRegistrationError reports whether err is (or wraps) a RegistrationError.
func IsRegistrationError(err error) bool {
	var re *RegistrationError
	return errors.As(err, &re)
}

// NewInheritanceCycleError builds the error for a cyclic inheritance graph.
func NewInheritanceCycleError(metamodelID, classID string) *RegistrationError {
	return &RegistrationError{
		Code:        ErrCodeInheritanceCycle,
		Message:     "inheritance graph contains a cycle",
		MetamodelID: metamodelID,
		ClassID:     classID,
	}
}
