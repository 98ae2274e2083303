package service

import (
	"bioserver/dao"
	"bioserver/middleware"
	"bioserver/model"
	"bioserver/response"

	"github.com/gin-gonic/gin"
)

type ModuleReq struct {
	Name           string           `json:"name" binding:"required"`
	Description    string           `json:"description"`
	Role           model.ModuleRole `json:"role" binding:"required,modulerole"`
	DisplayID      string           `json:"displayId"`
	BioDesignID    string           `json:"bioDesignId"`
	InfluenceIDs   []string         `json:"influenceIds" binding:"omitempty,dive,required"`
	ParentModuleID string           `json:"parentModuleId"`
	SubmoduleIDs   []string         `json:"submoduleIds" binding:"omitempty,dive,required"`
}

type ModuleService struct {
	*Resource[model.Module]
}

func NewModuleService(coll dao.Collection[model.Module]) *ModuleService {
	return &ModuleService{Resource: NewResource(coll)}
}

func (s *ModuleService) Register(r *gin.RouterGroup) {
	g := r.Group("/module")
	s.registerCRUD(g)
	g.POST("", s.Create)
}

func (s *ModuleService) Create(c *gin.Context) {
	var req ModuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	s.insert(c, &model.Module{
		ID:             model.NewID(),
		Name:           req.Name,
		Description:    req.Description,
		Role:           req.Role,
		UserID:         middleware.GetUserID(c),
		DisplayID:      req.DisplayID,
		BioDesignID:    req.BioDesignID,
		InfluenceIDs:   model.NewIDList(req.InfluenceIDs),
		ParentModuleID: req.ParentModuleID,
		SubmoduleIDs:   model.NewIDList(req.SubmoduleIDs),
	})
}
