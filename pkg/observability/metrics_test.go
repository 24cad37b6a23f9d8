package observability_test

import (
	"context"
	"testing"

	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks(nil)
	ctx := context.Background()

	stage := func(book, id string) *domain.StageEvent {
		return &domain.StageEvent{EventBase: domain.EventBase{BookID: book}, StageID: id}
	}

	hooks.OnStageEnter(ctx, stage("fox", "cover"))
	hooks.OnStageEnter(ctx, stage("fox", "p1"))
	hooks.OnBookSelect(ctx, stage("owl", "cover"))
	hooks.OnBookSelect(ctx, stage("fox", "cover"))
	hooks.OnNavigationFailure(ctx, stage("fox", "p1"))
	hooks.OnInput(ctx, &domain.InputEvent{Key: domain.KeyOK})
	hooks.OnInput(ctx, &domain.InputEvent{Key: domain.KeyOK, Completion: true})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StageVisits.WithLabelValues("fox")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookSelections.WithLabelValues("owl")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NavigationFailures.WithLabelValues("fox", "p1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Inputs.WithLabelValues("ok", "true")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CurrentBook), "only the selected book is current")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CurrentBook.WithLabelValues("fox")))

	count, err := testutil.GatherAndCount(reg, "talebox_inputs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
