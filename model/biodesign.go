package model

// BioDesign is the root of a designed device. Parts, modules and parameters
// point back at it through bioDesignId.
type BioDesign struct {
	ID              string `bson:"_id" json:"_id" gorm:"column:id;primaryKey;size:24"`
	Name            string `bson:"name" json:"name" gorm:"index;not null"`
	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	UserID          string `bson:"userId" json:"userId" gorm:"index"`
	DisplayID       string `bson:"displayId,omitempty" json:"displayId,omitempty"`
	SubBioDesignIDs IDList `bson:"subBioDesignIds" json:"subBioDesignIds"`
}

// Part is a structural sub-component of a BioDesign.
type Part struct {
	ID          string `bson:"_id" json:"_id" gorm:"column:id;primaryKey;size:24"`
	Name        string `bson:"name" json:"name" gorm:"index;not null"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	UserID      string `bson:"userId" json:"userId" gorm:"index"`
	DisplayID   string `bson:"displayId,omitempty" json:"displayId,omitempty"`
	BioDesignID string `bson:"bioDesignId,omitempty" json:"bioDesignId,omitempty" gorm:"index"`
}

// Assembly composes a part out of sub-assemblies.
type Assembly struct {
	ID             string `bson:"_id" json:"_id" gorm:"column:id;primaryKey;size:24"`
	SubpartID      string `bson:"subpartId" json:"subpartId" gorm:"index;not null"`
	SubAssemblyIDs IDList `bson:"subAssemblyIds" json:"subAssemblyIds"`
	UserID         string `bson:"userId" json:"userId" gorm:"index"`
}
