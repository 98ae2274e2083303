package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"bioserver/dao/query"
	"bioserver/model"
	"bioserver/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allSteps = []string{
	StepCreateBioDesign, StepCreateParameters, StepCreateModule, StepCreateSubpart,
	StepCreateAssembly, StepCreateSequence, StepCreateAnnotation, StepCreateFeature,
}

func decodeStep[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestCreateDeviceMinimal(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/device", map[string]any{"name": "dev", "createSeqFromParts": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[map[string]json.RawMessage](t, w)
	assert.Len(t, res, len(allSteps))

	bd := decodeStep[model.BioDesign](t, res[StepCreateBioDesign])
	assert.Equal(t, "dev", bd.Name)
	assert.Equal(t, testUserID, bd.UserID)
	part := decodeStep[model.Part](t, res[StepCreateSubpart])
	assert.Equal(t, bd.ID, part.BioDesignID)
	assert.Equal(t, "dev", part.Name)

	for _, step := range []string{StepCreateParameters, StepCreateModule, StepCreateSequence,
		StepCreateAnnotation, StepCreateAssembly, StepCreateFeature} {
		assert.JSONEq(t, `[]`, string(res[step]), step)
	}

	assert.Equal(t, 1, count(t, f.q.BioDesigns))
	assert.Equal(t, 1, count(t, f.q.Parts))
	assert.Equal(t, 0, count(t, f.q.Parameters))
	assert.Equal(t, 0, count(t, f.q.Modules))
	assert.Equal(t, 0, count(t, f.q.Sequences))
	assert.Equal(t, 0, count(t, f.q.Annotations))
	assert.Equal(t, 0, count(t, f.q.Assemblies))
	assert.Equal(t, 0, count(t, f.q.Features))

	got := decodeBody[model.BioDesign](t, f.do(http.MethodGet, "/device/"+bd.ID, nil))
	assert.Equal(t, bd, got)
}

func TestCreateDeviceWithRoleAndSequence(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/device", map[string]any{
		"name": "sensor", "role": "SENSOR", "sequence": "ATCG", "createSeqFromParts": false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[map[string]json.RawMessage](t, w)

	bd := decodeStep[model.BioDesign](t, res[StepCreateBioDesign])
	part := decodeStep[model.Part](t, res[StepCreateSubpart])
	mod := decodeStep[model.Module](t, res[StepCreateModule])
	seq := decodeStep[model.Sequence](t, res[StepCreateSequence])
	ann := decodeStep[model.Annotation](t, res[StepCreateAnnotation])
	feat := decodeStep[model.Feature](t, res[StepCreateFeature])

	assert.Equal(t, model.RoleSensor, mod.Role)
	assert.Equal(t, bd.ID, mod.BioDesignID)
	assert.Equal(t, "ATCG", seq.Sequence)
	assert.Equal(t, part.ID, seq.PartID)
	assert.Equal(t, seq.ID, ann.SequenceID)
	assert.Equal(t, 1, ann.Start)
	assert.Equal(t, 4, ann.End)
	assert.True(t, ann.IsForwardStrand)
	assert.Equal(t, mod.ID, feat.ModuleID)
	assert.Equal(t, ann.ID, feat.AnnotationID)
	assert.Equal(t, model.RoleSensor, feat.Role)
	assert.JSONEq(t, `[]`, string(res[StepCreateAssembly]))
	assert.JSONEq(t, `[]`, string(res[StepCreateParameters]))

	stored, err := f.q.Features.FindByID(context.Background(), feat.ID)
	require.NoError(t, err)
	assert.Equal(t, feat, *stored)
	assert.Equal(t, 1, count(t, f.q.Modules))
	assert.Equal(t, 1, count(t, f.q.Annotations))
}

func TestCreateDeviceRoleWithoutSequenceSkipsFeature(t *testing.T) {
	f := setup(t)
	w := f.do(http.MethodPost, "/device", map[string]any{"name": "d", "role": "REPORTER", "createSeqFromParts": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[map[string]json.RawMessage](t, w)
	assert.NotEqual(t, `[]`, string(res[StepCreateModule]))
	assert.JSONEq(t, `[]`, string(res[StepCreateFeature]))
	assert.Equal(t, 0, count(t, f.q.Features))
}

func TestCreateDeviceParameters(t *testing.T) {
	f := setup(t)
	w := f.do(http.MethodPost, "/device", map[string]any{
		"name":               "dev",
		"createSeqFromParts": false,
		"parameters": []map[string]any{
			{"value": 1, "variable": "a", "units": "nM"},
			{"value": 2.5, "variable": "b", "units": "s"},
			{"value": 0, "variable": "c", "units": "1/s"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[map[string]json.RawMessage](t, w)

	bd := decodeStep[model.BioDesign](t, res[StepCreateBioDesign])
	params := decodeStep[[]model.Parameter](t, res[StepCreateParameters])
	require.Len(t, params, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, params[i].Variable)
		assert.Equal(t, "dev", params[i].Name)
		assert.Equal(t, bd.ID, params[i].BioDesignID)
		assert.Equal(t, testUserID, params[i].UserID)
	}
	assert.Equal(t, 2.5, params[1].Value)
	assert.Equal(t, 3, count(t, f.q.Parameters))
}

func TestCreateDeviceValidation(t *testing.T) {
	f := setup(t)
	cases := map[string]map[string]any{
		"missing name":               {"createSeqFromParts": false},
		"missing createSeqFromParts": {"name": "d"},
		"bad role":                   {"name": "d", "createSeqFromParts": false, "role": "NOPE"},
		"bad sequence":               {"name": "d", "createSeqFromParts": false, "sequence": "AT-CG"},
		"empty part id":              {"name": "d", "createSeqFromParts": false, "partIds": []string{""}},
		"parameter missing units":    {"name": "d", "createSeqFromParts": false, "parameters": []map[string]any{{"value": 1, "variable": "v"}}},
		"parameter missing value":    {"name": "d", "createSeqFromParts": false, "parameters": []map[string]any{{"variable": "v", "units": "u"}}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/device", body).Code)
		})
	}
	assert.Equal(t, 0, count(t, f.q.BioDesigns))
}

func TestCreateDeviceStepFailure(t *testing.T) {
	f := setup(t, func(q *query.Query) {
		q.Sequences = failingCollection[model.Sequence]{Collection: q.Sequences, err: errors.New("disk full")}
	})

	w := f.do(http.MethodPost, "/device", map[string]any{
		"name": "d", "role": "SENSOR", "sequence": "ATCG", "createSeqFromParts": false,
	})
	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
	body := decodeBody[response.ErrorBody](t, w)
	assert.Equal(t, `task "createSequence": disk full`, body.Message)

	// writes before the failure remain
	assert.Equal(t, 1, count(t, f.q.BioDesigns))
	assert.Equal(t, 1, count(t, f.q.Parts))
	assert.Equal(t, 0, count(t, f.q.Annotations))
	assert.Equal(t, 0, count(t, f.q.Features))
	assert.Equal(t, 0, count(t, f.q.Assemblies))
}

func TestCreateDeviceRepeatedStepFailures(t *testing.T) {
	f := setup(t, func(q *query.Query) {
		q.Sequences = failingCollection[model.Sequence]{Collection: q.Sequences, err: errors.New("disk full")}
	})

	const runs = 25
	for i := 0; i < runs; i++ {
		w := f.do(http.MethodPost, "/device", map[string]any{
			"name": "d", "role": "SENSOR", "sequence": "ATCG", "createSeqFromParts": false,
		})
		require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
	}
	// a canceled sibling write must not take the tables with it
	assert.Equal(t, runs, count(t, f.q.BioDesigns))
	assert.Equal(t, runs, count(t, f.q.Parts))
	assert.Equal(t, 0, count(t, f.q.Features))
}

func TestCreateDeviceRootFailure(t *testing.T) {
	f := setup(t, func(q *query.Query) {
		q.BioDesigns = failingCollection[model.BioDesign]{Collection: q.BioDesigns, err: errors.New("no primary")}
	})
	w := f.do(http.MethodPost, "/device", map[string]any{"name": "d", "createSeqFromParts": false})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, count(t, f.q.Parts))
}

func TestDeleteDevice(t *testing.T) {
	f := setup(t)
	res := decodeBody[map[string]json.RawMessage](t, f.do(http.MethodPost, "/device", map[string]any{"name": "d", "createSeqFromParts": false}))
	bd := decodeStep[model.BioDesign](t, res[StepCreateBioDesign])

	w := f.do(http.MethodDelete, "/device/"+bd.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Success."}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/device/"+bd.ID, nil).Code)
	// no cascade
	assert.Equal(t, 1, count(t, f.q.Parts))
}

func TestDeviceGraphOrder(t *testing.T) {
	s := &DeviceService{}
	g, err := s.graph(&DeviceReq{Name: "x"}, "u")
	require.NoError(t, err)
	assert.Equal(t, allSteps, g.Order())
}
