package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbcet/alumnimeet/internal/form"
	"github.com/mbcet/alumnimeet/internal/models"
)

type stubStore struct{ err error }

func (s stubStore) CreateRecord(context.Context, models.Registration) (string, error) {
	return "id", s.err
}

func TestHooks_CountOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())
	h := m.Hooks()

	h.Invalid(form.ErrorMap{form.FieldEmail: form.MsgEmailInvalid, form.FieldConsent: form.MsgConsentRequired})
	h.Invalid(form.ErrorMap{form.FieldEmail: form.MsgEmailRequired})
	h.Ignored(form.ErrSubmitInFlight)
	h.Ignored(form.ErrAlreadySubmitted)
	h.Submitted(context.Background(), "id", models.Registration{})
	h.Failed(errors.New("down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("ignored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InvalidFields.WithLabelValues(form.FieldEmail)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvalidFields.WithLabelValues(form.FieldConsent)))
}

func TestInstrumentStore_ObservesLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	s := m.InstrumentStore(stubStore{})
	_, err := s.CreateRecord(context.Background(), models.Registration{})
	require.NoError(t, err)

	_, err = m.InstrumentStore(stubStore{err: errors.New("boom")}).CreateRecord(context.Background(), models.Registration{})
	require.Error(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(m.StoreLatency))
	n, err := testutil.GatherAndCount(reg, "alumni_store_create_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSetActiveSessions(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SetActiveSessions(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))
}
