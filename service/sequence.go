package service

import (
	"bioserver/dao"
	"bioserver/middleware"
	"bioserver/model"
	"bioserver/response"

	"github.com/gin-gonic/gin"
)

type SequenceReq struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	DisplayID        string   `json:"displayId"`
	FeatureID        string   `json:"featureId"`
	PartID           string   `json:"partId"`
	Sequence         string   `json:"sequence" binding:"required,seqalphabet"`
	IsLinear         *bool    `json:"isLinear"`
	IsSingleStranded *bool    `json:"isSingleStranded"`
	Annotations      []string `json:"annotations" binding:"omitempty,dive,required"`
	ParentSequenceID string   `json:"parentSequenceId"`
}

type SequenceService struct {
	*Resource[model.Sequence]
}

func NewSequenceService(coll dao.Collection[model.Sequence]) *SequenceService {
	return &SequenceService{Resource: NewResource(coll)}
}

func (s *SequenceService) Register(r *gin.RouterGroup) {
	g := r.Group("/sequence")
	s.registerCRUD(g)
	g.POST("", s.Create)
}

func (s *SequenceService) Create(c *gin.Context) {
	var req SequenceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	s.insert(c, &model.Sequence{
		ID:               model.NewID(),
		Name:             req.Name,
		Description:      req.Description,
		UserID:           middleware.GetUserID(c),
		DisplayID:        req.DisplayID,
		FeatureID:        req.FeatureID,
		PartID:           req.PartID,
		Sequence:         req.Sequence,
		IsLinear:         req.IsLinear,
		IsSingleStranded: req.IsSingleStranded,
		Annotations:      model.NewIDList(req.Annotations),
		ParentSequenceID: req.ParentSequenceID,
	})
}
