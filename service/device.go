package service

import (
	"context"
	"time"

	"bioserver/dao/query"
	"bioserver/metrics"
	"bioserver/middleware"
	"bioserver/model"
	"bioserver/response"
	"bioserver/taskgraph"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Device creation steps, also the keys of the POST /device response.
const (
	StepCreateBioDesign  = "createBioDesign"
	StepCreateParameters = "createParameters"
	StepCreateModule     = "createModule"
	StepCreateSubpart    = "createSubpart"
	StepCreateAssembly   = "createAssembly"
	StepCreateSequence   = "createSequence"
	StepCreateAnnotation = "createAnnotation"
	StepCreateFeature    = "createFeature"
)

type DeviceParameterReq struct {
	Value    *float64 `json:"value" binding:"required"`
	Variable string   `json:"variable" binding:"required"`
	Units    string   `json:"units" binding:"required"`
}

type DeviceReq struct {
	Name      string           `json:"name" binding:"required"`
	UserID    string           `json:"userId"`
	DisplayID string           `json:"displayId"`
	Role      model.ModuleRole `json:"role" binding:"omitempty,modulerole"`
	// PartIDs and CreateSeqFromParts are accepted for compatibility and not used.
	PartIDs            []string             `json:"partIds" binding:"omitempty,dive,required"`
	CreateSeqFromParts *bool                `json:"createSeqFromParts" binding:"required"`
	Sequence           string               `json:"sequence" binding:"omitempty,seqalphabet"`
	Parameters         []DeviceParameterReq `json:"parameters" binding:"omitempty,dive"`
}

// DeviceService serves /device. A device is the BioDesign root plus the
// documents created under it by Create.
type DeviceService struct {
	*Resource[model.BioDesign]
	q *query.Query
}

func NewDeviceService(q *query.Query) *DeviceService {
	return &DeviceService{Resource: NewResource(q.BioDesigns), q: q}
}

func (s *DeviceService) Register(r *gin.RouterGroup) {
	g := r.Group("/device")
	s.registerCRUD(g)
	g.POST("", s.Create)
}

func (s *DeviceService) Create(c *gin.Context) {
	var req DeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, bindMessage(err))
		return
	}

	graph, err := s.graph(&req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	results, err := graph.Run(c.Request.Context())
	if err != nil {
		storeError(c, err, response.MsgDocumentNotFound)
		return
	}

	out := make(map[string]any, len(results))
	for name, v := range results {
		if v == nil {
			v = []any{}
		}
		out[name] = v
	}
	response.Success(c, out)
}

// graph wires the creation steps for one request. Steps whose input was not
// supplied resolve to nil.
func (s *DeviceService) graph(req *DeviceReq, userID string) (*taskgraph.Graph, error) {
	g, err := taskgraph.New(
		taskgraph.Task{
			Name: StepCreateBioDesign,
			Run: func(ctx context.Context, _ taskgraph.Results) (any, error) {
				doc := &model.BioDesign{
					ID:              model.NewID(),
					Name:            req.Name,
					UserID:          userID,
					DisplayID:       req.DisplayID,
					SubBioDesignIDs: model.NewIDList(nil),
				}
				return doc, s.q.BioDesigns.Insert(ctx, doc)
			},
		},
		taskgraph.Task{
			Name: StepCreateParameters,
			Deps: []string{StepCreateBioDesign},
			Run: func(ctx context.Context, deps taskgraph.Results) (any, error) {
				if len(req.Parameters) == 0 {
					return nil, nil
				}
				bd, _ := taskgraph.Get[*model.BioDesign](deps, StepCreateBioDesign)
				return s.createParameters(ctx, req, userID, bd.ID)
			},
		},
		taskgraph.Task{
			Name: StepCreateModule,
			Deps: []string{StepCreateBioDesign},
			Run: func(ctx context.Context, deps taskgraph.Results) (any, error) {
				if req.Role == "" {
					return nil, nil
				}
				bd, _ := taskgraph.Get[*model.BioDesign](deps, StepCreateBioDesign)
				doc := &model.Module{
					ID:           model.NewID(),
					Name:         req.Name,
					Role:         req.Role,
					UserID:       userID,
					DisplayID:    req.DisplayID,
					BioDesignID:  bd.ID,
					InfluenceIDs: model.NewIDList(nil),
					SubmoduleIDs: model.NewIDList(nil),
				}
				return doc, s.q.Modules.Insert(ctx, doc)
			},
		},
		taskgraph.Task{
			Name: StepCreateSubpart,
			Deps: []string{StepCreateBioDesign},
			Run: func(ctx context.Context, deps taskgraph.Results) (any, error) {
				bd, _ := taskgraph.Get[*model.BioDesign](deps, StepCreateBioDesign)
				doc := &model.Part{
					ID:          model.NewID(),
					Name:        req.Name,
					UserID:      userID,
					DisplayID:   req.DisplayID,
					BioDesignID: bd.ID,
				}
				return doc, s.q.Parts.Insert(ctx, doc)
			},
		},
		taskgraph.Task{
			// No source of sub-assembly ids exists yet, so assemblies are not created here.
			Name: StepCreateAssembly,
			Deps: []string{StepCreateSubpart},
			Run: func(context.Context, taskgraph.Results) (any, error) {
				return nil, nil
			},
		},
		taskgraph.Task{
			Name: StepCreateSequence,
			Deps: []string{StepCreateSubpart},
			Run: func(ctx context.Context, deps taskgraph.Results) (any, error) {
				if req.Sequence == "" {
					return nil, nil
				}
				part, _ := taskgraph.Get[*model.Part](deps, StepCreateSubpart)
				doc := &model.Sequence{
					ID:          model.NewID(),
					Name:        req.Name,
					UserID:      userID,
					DisplayID:   req.DisplayID,
					PartID:      part.ID,
					Sequence:    req.Sequence,
					Annotations: model.NewIDList(nil),
				}
				return doc, s.q.Sequences.Insert(ctx, doc)
			},
		},
		taskgraph.Task{
			Name: StepCreateAnnotation,
			Deps: []string{StepCreateSequence},
			Run: func(ctx context.Context, deps taskgraph.Results) (any, error) {
				seq, ok := taskgraph.Get[*model.Sequence](deps, StepCreateSequence)
				if !ok {
					return nil, nil
				}
				doc := &model.Annotation{
					ID:              model.NewID(),
					SequenceID:      seq.ID,
					Name:            req.Name,
					Start:           1,
					End:             len(seq.Sequence),
					IsForwardStrand: true,
					UserID:          userID,
				}
				return doc, s.q.Annotations.Insert(ctx, doc)
			},
		},
		taskgraph.Task{
			Name: StepCreateFeature,
			Deps: []string{StepCreateModule, StepCreateAnnotation},
			Run: func(ctx context.Context, deps taskgraph.Results) (any, error) {
				mod, okModule := taskgraph.Get[*model.Module](deps, StepCreateModule)
				ann, okAnnotation := taskgraph.Get[*model.Annotation](deps, StepCreateAnnotation)
				if !okModule || !okAnnotation {
					return nil, nil
				}
				doc := &model.Feature{
					ID:           model.NewID(),
					Name:         req.Name,
					UserID:       userID,
					DisplayID:    req.DisplayID,
					Role:         req.Role,
					AnnotationID: ann.ID,
					ModuleID:     mod.ID,
				}
				return doc, s.q.Features.Insert(ctx, doc)
			},
		},
	)
	if err != nil {
		return nil, err
	}
	g.OnTaskDone = recordStep
	return g, nil
}

// createParameters inserts one Parameter per entry concurrently and returns
// them in request order once all are stored.
func (s *DeviceService) createParameters(ctx context.Context, req *DeviceReq, userID, bioDesignID string) ([]*model.Parameter, error) {
	out := make([]*model.Parameter, len(req.Parameters))
	eg, ctx := errgroup.WithContext(ctx)
	for i, p := range req.Parameters {
		eg.Go(func() error {
			doc := &model.Parameter{
				ID:          model.NewID(),
				Name:        req.Name,
				UserID:      userID,
				BioDesignID: bioDesignID,
				Value:       *p.Value,
				Variable:    p.Variable,
				Units:       p.Units,
			}
			if err := s.q.Parameters.Insert(ctx, doc); err != nil {
				return err
			}
			out[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func recordStep(name string, result any, err error, took time.Duration) {
	outcome := "created"
	switch {
	case err != nil:
		outcome = "failed"
	case result == nil:
		outcome = "skipped"
	}
	metrics.RecordDeviceStep(name, outcome, took)
}
