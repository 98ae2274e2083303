package model

// Module tags a BioDesign with a functional role.
type Module struct {
	ID             string     `bson:"_id" json:"_id" gorm:"column:id;primaryKey;size:24"`
	Name           string     `bson:"name" json:"name" gorm:"not null"`
	Description    string     `bson:"description,omitempty" json:"description,omitempty"`
	Role           ModuleRole `bson:"role" json:"role" gorm:"type:varchar(32);index;not null"`
	UserID         string     `bson:"userId" json:"userId" gorm:"index"`
	DisplayID      string     `bson:"displayId,omitempty" json:"displayId,omitempty"`
	BioDesignID    string     `bson:"bioDesignId,omitempty" json:"bioDesignId,omitempty" gorm:"index"`
	InfluenceIDs   IDList     `bson:"influenceIds" json:"influenceIds"`
	ParentModuleID string     `bson:"parentModuleId,omitempty" json:"parentModuleId,omitempty"`
	SubmoduleIDs   IDList     `bson:"submoduleIds" json:"submoduleIds"`
}

// Parameter is a named numeric value with a physical unit.
type Parameter struct {
	ID          string  `bson:"_id" json:"_id" gorm:"column:id;primaryKey;size:24"`
	Name        string  `bson:"name" json:"name" gorm:"not null"`
	UserID      string  `bson:"userId" json:"userId" gorm:"index"`
	BioDesignID string  `bson:"bioDesignId,omitempty" json:"bioDesignId,omitempty" gorm:"index"`
	Value       float64 `bson:"value" json:"value"`
	Variable    string  `bson:"variable" json:"variable" gorm:"not null"`
	Units       string  `bson:"units" json:"units" gorm:"not null"`
}

// Feature links a module to the annotation that realizes it.
type Feature struct {
	ID           string     `bson:"_id" json:"_id" gorm:"column:id;primaryKey;size:24"`
	Name         string     `bson:"name" json:"name" gorm:"not null"`
	Description  string     `bson:"description,omitempty" json:"description,omitempty"`
	UserID       string     `bson:"userId" json:"userId" gorm:"index"`
	DisplayID    string     `bson:"displayId,omitempty" json:"displayId,omitempty"`
	Role         ModuleRole `bson:"role,omitempty" json:"role,omitempty" gorm:"type:varchar(32)"`
	AnnotationID string     `bson:"annotationId,omitempty" json:"annotationId,omitempty" gorm:"index"`
	ModuleID     string     `bson:"moduleId,omitempty" json:"moduleId,omitempty" gorm:"index"`
}
