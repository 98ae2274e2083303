package service

import (
	"bioserver/dao"
	"bioserver/middleware"
	"bioserver/model"
	"bioserver/response"

	"github.com/gin-gonic/gin"
)

type SubpartReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DisplayID   string `json:"displayId"`
	BioDesignID string `json:"bioDesignId"`
}

type SubpartUpdateReq struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	DisplayID   *string `json:"displayId"`
	BioDesignID *string `json:"bioDesignId"`
}

// SubpartService serves Part documents under /subpart.
type SubpartService struct {
	*Resource[model.Part]
}

func NewSubpartService(coll dao.Collection[model.Part]) *SubpartService {
	return &SubpartService{Resource: NewResource(coll)}
}

func (s *SubpartService) Register(r *gin.RouterGroup) {
	g := r.Group("/subpart")
	s.registerCRUD(g)
	g.POST("", s.Create)
	g.PUT("/:id", s.Update)
}

func (s *SubpartService) Create(c *gin.Context) {
	var req SubpartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	s.insert(c, &model.Part{
		ID:          model.NewID(),
		Name:        req.Name,
		Description: req.Description,
		UserID:      middleware.GetUserID(c),
		DisplayID:   req.DisplayID,
		BioDesignID: req.BioDesignID,
	})
}

func (s *SubpartService) Update(c *gin.Context) {
	var uri IDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	var req SubpartUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	set := optional(map[string]any{"name": req.Name}, map[string]*string{
		"description": req.Description,
		"displayId":   req.DisplayID,
		"bioDesignId": req.BioDesignID,
	})
	s.update(c, uri.ID, set, response.MsgDocumentNotFound)
}
