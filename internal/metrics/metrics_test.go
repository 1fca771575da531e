package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evolab/internal/ga"
	"evolab/internal/strbuild"
)

func TestCollector_FollowsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	p := strbuild.DefaultParams("éé")
	p.GA.PopulationSize = 10
	p.GA.GenerationCount = 5
	p.Seed = 3

	res, err := strbuild.Run(context.Background(), p, nil, Observer[[]rune](c, "strings"))
	require.NoError(t, err)
	c.RunFinished("strings", res.Reason)

	assert.Equal(t, 5.0, testutil.ToFloat64(c.generation.WithLabelValues("strings")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.best.WithLabelValues("strings")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("strings", ga.ReasonBudgetExhausted.String())))
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	c.Observe("tsp", 7, 120.5, 140)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `evolab_generation{scenario="tsp"} 7`)
	assert.Contains(t, string(body), `evolab_best_fitness{scenario="tsp"} 120.5`)
}
