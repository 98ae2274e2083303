package service

import (
	"bioserver/dao"
	"bioserver/middleware"
	"bioserver/model"
	"bioserver/response"

	"github.com/gin-gonic/gin"
)

type ParameterReq struct {
	Name        string   `json:"name" binding:"required"`
	BioDesignID string   `json:"bioDesignId"`
	Value       *float64 `json:"value" binding:"required"`
	Variable    string   `json:"variable" binding:"required"`
	Units       string   `json:"units" binding:"required"`
}

type ParameterUpdateReq struct {
	Value       *float64 `json:"value" binding:"required"`
	Variable    string   `json:"variable" binding:"required"`
	BioDesignID *string  `json:"bioDesignId"`
}

type ParameterService struct {
	*Resource[model.Parameter]
}

func NewParameterService(coll dao.Collection[model.Parameter]) *ParameterService {
	return &ParameterService{Resource: NewResource(coll)}
}

func (s *ParameterService) Register(r *gin.RouterGroup) {
	g := r.Group("/parameter")
	s.registerCRUD(g)
	g.POST("", s.Create)
	g.PUT("/:id", s.Update)
}

func (s *ParameterService) Create(c *gin.Context) {
	var req ParameterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	s.insert(c, &model.Parameter{
		ID:          model.NewID(),
		Name:        req.Name,
		UserID:      middleware.GetUserID(c),
		BioDesignID: req.BioDesignID,
		Value:       *req.Value,
		Variable:    req.Variable,
		Units:       req.Units,
	})
}

// Update sets value and variable, and bioDesignId when it is supplied.
func (s *ParameterService) Update(c *gin.Context) {
	var uri IDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	var req ParameterUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	set := map[string]any{
		"value":    *req.Value,
		"variable": req.Variable,
	}
	set = optional(set, map[string]*string{"bioDesignId": req.BioDesignID})
	s.update(c, uri.ID, set, response.MsgParameterNotFound)
}
