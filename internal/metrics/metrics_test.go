package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks(t *testing.T) {
	m := New()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnValidate(ctx, &domain.ValidationEvent{EventBase: domain.EventBase{Type: domain.EventValidated}})
	hooks.OnValidate(ctx, &domain.ValidationEvent{EventBase: domain.EventBase{Type: domain.EventRejected}, Issues: 2})
	hooks.OnValidate(ctx, &domain.ValidationEvent{EventBase: domain.EventBase{Type: domain.EventRejected}, Issues: 1})
	hooks.OnCompile(ctx, &domain.CompileEvent{
		SectionTypes: []string{domain.TypeChoice, domain.TypeChoice, domain.TypeDecision},
		Duration:     time.Millisecond,
	})
	hooks.OnSubmit(ctx, &domain.SubmitEvent{Approved: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Validations.WithLabelValues("valid")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Validations.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Compilations))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SectionsByType.WithLabelValues(domain.TypeChoice)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("approved")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Submissions.WithLabelValues("rejected")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Compilations.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "iaee_compilations_total 1")
}

func TestIndependentRegistries(t *testing.T) {
	// Registering twice on the default registry would panic.
	a, b := New(), New()
	a.Compilations.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Compilations))
}
