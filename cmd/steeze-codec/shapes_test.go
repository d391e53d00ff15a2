package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/joeydtaylor/steeze-codec/pkg/adapters"
	"github.com/joeydtaylor/steeze-codec/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	if err := registerShapes(zap.NewNop()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestShapeCodec_RoundTrip(t *testing.T) {
	c, err := newShapeCodec(zap.NewNop())
	require.NoError(t, err)

	poly := &Polygon{
		ID:       adapters.MustParseUUID("f47ac10b-58cc-4372-a567-0e02b2c3d479"),
		Vertices: []adapters.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}},
		Drawn:    adapters.InstantFromEpoch(1700000000, 0),
	}
	for _, s := range []Shape{
		Circle{Center: adapters.Point{X: 1, Y: 2}, Radius: 5, Fill: adapters.Color{A: 0xff, R: 0xff}},
		Square{Side: 2},
		poly,
	} {
		out, err := c.Encode(s)
		require.NoError(t, err)
		back, err := c.Decode(out)
		require.NoError(t, err)
		assert.InDelta(t, s.Area(), back.Area(), 1e-9)
	}

	out, err := c.Encode(Circle{Radius: 1})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), `{"type":"circle",`), string(out))
	assert.InDelta(t, 6.0, poly.Area(), 1e-9)
}

func TestScale2(t *testing.T) {
	s, err := scale2(Square{Side: 3})
	require.NoError(t, err)
	assert.Equal(t, Square{Side: 6}, s)

	in := &Polygon{Vertices: []adapters.Point{{X: 1, Y: 1}}}
	s, err = scale2(in)
	require.NoError(t, err)
	assert.Equal(t, []adapters.Point{{X: 2, Y: 2}}, s.(*Polygon).Vertices)
	assert.Equal(t, adapters.Point{X: 1, Y: 1}, in.Vertices[0])
}

func TestManifest_Serves(t *testing.T) {
	cfg, err := core.LoadConfig("manifest.toml")
	require.NoError(t, err)
	h := core.BuildRouter(cfg, core.BuildDeps{})

	post := func(path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		return rec
	}

	rec := post("/shapes/area", `{"type":"square","side":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"label":"square","area":9}`, rec.Body.String())

	rec = post("/shapes/area", `{"type":"hexagon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post("/shapes/area", `{"type":"polygon","vertices":[[0,0],[1,1]]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), errDegenerate.Error())

	rec = post("/shapes/scale", `{"type":"circle","radius":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"radius": 2`)

	rec = post("/shapes/scale", `{"type":"circle","radius":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shapes/labels", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"family":"shape","discriminator":"type","labels":["circle","square","polygon"]}`, rec.Body.String())
}
