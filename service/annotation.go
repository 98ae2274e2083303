package service

import (
	"bioserver/dao"
	"bioserver/middleware"
	"bioserver/model"
	"bioserver/response"

	"github.com/gin-gonic/gin"
)

type AnnotationReq struct {
	SequenceID      string `json:"sequenceId" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Start           *int   `json:"start" binding:"required,gt=0"`
	End             *int   `json:"end" binding:"required,gt=0"`
	IsForwardStrand *bool  `json:"isForwardStrand" binding:"required"`
}

type AnnotationService struct {
	*Resource[model.Annotation]
}

func NewAnnotationService(coll dao.Collection[model.Annotation]) *AnnotationService {
	return &AnnotationService{Resource: NewResource(coll)}
}

func (s *AnnotationService) Register(r *gin.RouterGroup) {
	g := r.Group("/annotation")
	s.registerCRUD(g)
	g.POST("", s.Create)
}

func (s *AnnotationService) Create(c *gin.Context) {
	var req AnnotationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	s.insert(c, &model.Annotation{
		ID:              model.NewID(),
		SequenceID:      req.SequenceID,
		Name:            req.Name,
		Description:     req.Description,
		Start:           *req.Start,
		End:             *req.End,
		IsForwardStrand: *req.IsForwardStrand,
		UserID:          middleware.GetUserID(c),
	})
}
