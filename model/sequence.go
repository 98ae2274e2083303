package model

// Sequence holds the raw nucleotide or amino-acid text of a part.
type Sequence struct {
	ID               string `bson:"_id" json:"_id" gorm:"column:id;primaryKey;size:24"`
	Name             string `bson:"name" json:"name" gorm:"index;not null"`
	Description      string `bson:"description,omitempty" json:"description,omitempty"`
	UserID           string `bson:"userId" json:"userId" gorm:"index"`
	DisplayID        string `bson:"displayId,omitempty" json:"displayId,omitempty"`
	FeatureID        string `bson:"featureId,omitempty" json:"featureId,omitempty"`
	PartID           string `bson:"partId,omitempty" json:"partId,omitempty" gorm:"index"`
	Sequence         string `bson:"sequence" json:"sequence" gorm:"type:text;not null"`
	IsLinear         *bool  `bson:"isLinear,omitempty" json:"isLinear,omitempty"`
	IsSingleStranded *bool  `bson:"isSingleStranded,omitempty" json:"isSingleStranded,omitempty"`
	Annotations      IDList `bson:"annotations" json:"annotations"`
	ParentSequenceID string `bson:"parentSequenceId,omitempty" json:"parentSequenceId,omitempty"`
}

// Annotation labels the closed interval [Start, End] of a sequence.
type Annotation struct {
	ID              string `bson:"_id" json:"_id" gorm:"column:id;primaryKey;size:24"`
	SequenceID      string `bson:"sequenceId" json:"sequenceId" gorm:"index;not null"`
	Name            string `bson:"name" json:"name" gorm:"not null"`
	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	Start           int    `bson:"start" json:"start"`
	End             int    `bson:"end" json:"end"`
	IsForwardStrand bool   `bson:"isForwardStrand" json:"isForwardStrand"`
	UserID          string `bson:"userId" json:"userId" gorm:"index"`
}
