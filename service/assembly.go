package service

import (
	"bioserver/dao"
	"bioserver/middleware"
	"bioserver/model"
	"bioserver/response"

	"github.com/gin-gonic/gin"
)

type AssemblyReq struct {
	SubpartID      string   `json:"subpartId" binding:"required"`
	SubAssemblyIDs []string `json:"subAssemblyIds" binding:"omitempty,dive,required"`
}

type AssemblyService struct {
	*Resource[model.Assembly]
}

func NewAssemblyService(coll dao.Collection[model.Assembly]) *AssemblyService {
	return &AssemblyService{Resource: NewResource(coll)}
}

func (s *AssemblyService) Register(r *gin.RouterGroup) {
	g := r.Group("/assembly")
	s.registerCRUD(g)
	g.POST("", s.Create)
}

func (s *AssemblyService) Create(c *gin.Context) {
	var req AssemblyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	s.insert(c, &model.Assembly{
		ID:             model.NewID(),
		SubpartID:      req.SubpartID,
		SubAssemblyIDs: model.NewIDList(req.SubAssemblyIDs),
		UserID:         middleware.GetUserID(c),
	})
}
