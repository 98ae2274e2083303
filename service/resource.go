package service

import (
	"errors"

	"bioserver/dao"
	"bioserver/logutils"
	"bioserver/middleware"
	"bioserver/response"

	"github.com/gin-gonic/gin"
)

type ListReq struct {
	Sort   string `form:"sort"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Fields string `form:"fields"`
}

type IDReq struct {
	ID string `uri:"id" binding:"required"`
}

// Resource serves the list, get and delete routes every collection shares.
type Resource[T any] struct {
	coll dao.Collection[T]
}

func NewResource[T any](coll dao.Collection[T]) *Resource[T] {
	return &Resource[T]{coll: coll}
}

func (r *Resource[T]) registerCRUD(g *gin.RouterGroup) {
	g.GET("", r.List)
	g.GET("/:id", r.Get)
	g.DELETE("/:id", r.Delete)
}

func (r *Resource[T]) List(c *gin.Context) {
	var req ListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	page, err := r.coll.PagedFind(c.Request.Context(), dao.PageQuery{
		Sort:   req.Sort,
		Fields: req.Fields,
		Limit:  req.Limit,
		Page:   req.Page,
	})
	if err != nil {
		storeError(c, err, response.MsgDocumentNotFound)
		return
	}
	response.Success(c, page)
}

func (r *Resource[T]) Get(c *gin.Context) {
	var req IDReq
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	doc, err := r.coll.FindByID(c.Request.Context(), req.ID)
	if err != nil {
		storeError(c, err, response.MsgDocumentNotFound)
		return
	}
	response.Success(c, doc)
}

func (r *Resource[T]) Delete(c *gin.Context) {
	var req IDReq
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}
	if _, err := r.coll.FindByIDAndDelete(c.Request.Context(), req.ID); err != nil {
		storeError(c, err, response.MsgDocumentNotFound)
		return
	}
	response.Deleted(c)
}

func (r *Resource[T]) insert(c *gin.Context, doc *T) {
	if err := r.coll.Insert(c.Request.Context(), doc); err != nil {
		storeError(c, err, response.MsgDocumentNotFound)
		return
	}
	response.Success(c, doc)
}

func (r *Resource[T]) update(c *gin.Context, id string, set map[string]any, notFound string) {
	doc, err := r.coll.FindByIDAndUpdate(c.Request.Context(), id, set)
	if err != nil {
		storeError(c, err, notFound)
		return
	}
	response.Success(c, doc)
}

// storeError maps dao.ErrNotFound to 404 and everything else to 500.
func storeError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, dao.ErrNotFound) {
		response.NotFound(c, notFound)
		return
	}
	logutils.Log.WithFields(logutils.Fields{
		"route":   c.FullPath(),
		"user_id": middleware.GetUserID(c),
		"error":   err,
	}).Error("store failure")
	response.Error(c, err)
}

// optional copies each non-nil value into set under its field name.
func optional(set map[string]any, fields map[string]*string) map[string]any {
	for k, v := range fields {
		if v != nil {
			set[k] = *v
		}
	}
	return set
}
