package service

import (
	"bioserver/dao"
	"bioserver/middleware"
	"bioserver/model"
	"bioserver/response"

	"github.com/gin-gonic/gin"
)

type FeatureReq struct {
	Name         string           `json:"name" binding:"required"`
	Description  string           `json:"description"`
	DisplayID    string           `json:"displayId"`
	Role         model.ModuleRole `json:"role" binding:"omitempty,modulerole"`
	AnnotationID string           `json:"annotationId"`
	ModuleID     string           `json:"moduleId"`
}

type FeatureService struct {
	*Resource[model.Feature]
}

func NewFeatureService(coll dao.Collection[model.Feature]) *FeatureService {
	return &FeatureService{Resource: NewResource(coll)}
}

func (s *FeatureService) Register(r *gin.RouterGroup) {
	g := r.Group("/feature")
	s.registerCRUD(g)
	g.POST("", s.Create)
}

func (s *FeatureService) Create(c *gin.Context) {
	var req FeatureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	s.insert(c, &model.Feature{
		ID:           model.NewID(),
		Name:         req.Name,
		Description:  req.Description,
		UserID:       middleware.GetUserID(c),
		DisplayID:    req.DisplayID,
		Role:         req.Role,
		AnnotationID: req.AnnotationID,
		ModuleID:     req.ModuleID,
	})
}
