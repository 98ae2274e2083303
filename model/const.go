package model

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/datatypes"
)

// Functional role of a module
type ModuleRole string

const (
	RoleTranscription        ModuleRole = "TRANSCRIPTION"
	RoleTranslation          ModuleRole = "TRANSLATION"
	RoleExpression           ModuleRole = "EXPRESSION"
	RoleCompartmentalization ModuleRole = "COMPARTMENTALIZATION"
	RoleLocalization         ModuleRole = "LOCALIZATION"
	RoleSensor               ModuleRole = "SENSOR"
	RoleReporter             ModuleRole = "REPORTER"
	RoleActivation           ModuleRole = "ACTIVATION"
	RoleRepression           ModuleRole = "REPRESSION"
)

var ModuleRoles = []ModuleRole{
	RoleTranscription,
	RoleTranslation,
	RoleExpression,
	RoleCompartmentalization,
	RoleLocalization,
	RoleSensor,
	RoleReporter,
	RoleActivation,
	RoleRepression,
}

// Valid reports whether r is one of ModuleRoles.
func (r ModuleRole) Valid() bool {
	for _, role := range ModuleRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Collection (table) names
const (
	CollectionBioDesigns  = "bioDesigns"
	CollectionParts       = "parts"
	CollectionAssemblies  = "assemblies"
	CollectionSequences   = "sequences"
	CollectionAnnotations = "annotations"
	CollectionModules     = "modules"
	CollectionParameters  = "parameters"
	CollectionFeatures    = "features"
)

// Nucleotide / amino-acid alphabet, matched case-insensitively
var sequenceAlphabet = regexp.MustCompile(`(?i)^[ATUCGRYKMSWBDHVN]+$`)

// ValidSequence reports whether s is a non-empty string over the sequence alphabet.
func ValidSequence(s string) bool {
	return sequenceAlphabet.MatchString(s)
}

// NewID returns a fresh document id in ObjectID hex form.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IDList is a list of document ids, stored as an array in Mongo and as JSON in SQL.
type IDList = datatypes.JSONSlice[string]

// NewIDList never returns nil, so the list is persisted as [] instead of null.
func NewIDList(ids []string) IDList {
	if ids == nil {
		return IDList{}
	}
	return IDList(ids)
}
