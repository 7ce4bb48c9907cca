package productivity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

func floatPtr(v float64) *float64 { return &v }

func TestSessionPauseResumeCheckout(t *testing.T) {
	t.Parallel()

	s := domain.NewWorkSession("s-1", "job-1", "item-1", "inst-a", t0, nil, "")

	pause, err := s.Pause("p-1", domain.PauseRain, t0.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.SessionPaused, s.Status)
	assert.True(t, pause.IsOpen())

	minutes, err := s.Resume(&pause, t0.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 10, minutes)
	assert.Equal(t, domain.SessionInProgress, s.Status)
	assert.False(t, pause.IsOpen())

	err = s.Checkout(domain.CheckoutData{InstalledAreaM2: floatPtr(6)}, domain.TotalPauseMinutes([]domain.PauseLog{pause}), t0.Add(70*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, domain.SessionCompleted, s.Status)
	assert.Equal(t, 70, s.GrossDurationMin)
	assert.Equal(t, 10, s.TotalPauseMin)
	assert.Equal(t, 60, s.NetDurationMin)
	require.NotNil(t, s.ProductivityM2PerH)
	assert.InDelta(t, 6.0, *s.ProductivityM2PerH, 1e-9)
}

func TestSessionInvalidTransitions(t *testing.T) {
	t.Parallel()

	s := domain.NewWorkSession("s-1", "job-1", "item-1", "inst-a", t0, nil, "")

	_, err := s.Resume(nil, t0)
	require.ErrorIs(t, err, domain.ErrSessionNotPaused)

	_, err = s.Pause("p-1", domain.PauseReason("coffee"), t0)
	require.ErrorIs(t, err, domain.ErrInvalidPauseReason)

	_, err = s.Pause("p-1", domain.PauseLunchBreak, t0)
	require.NoError(t, err)
	_, err = s.Pause("p-2", domain.PauseLunchBreak, t0)
	require.ErrorIs(t, err, domain.ErrSessionAlreadyPaused)

	_, err = s.Resume(nil, t0)
	require.ErrorIs(t, err, domain.ErrNoOpenPause)

	require.NoError(t, s.Checkout(domain.CheckoutData{}, 0, t0.Add(time.Hour)))
	require.ErrorIs(t, s.Checkout(domain.CheckoutData{}, 0, t0.Add(2*time.Hour)), domain.ErrSessionCompleted)
	_, err = s.Pause("p-3", domain.PauseRain, t0.Add(2*time.Hour))
	require.ErrorIs(t, err, domain.ErrSessionCompleted)
}

func TestCheckoutNetNeverNegative(t *testing.T) {
	t.Parallel()

	s := domain.NewWorkSession("s-1", "job-1", "", "inst-a", t0, nil, "")

	require.NoError(t, s.Checkout(domain.CheckoutData{InstalledAreaM2: floatPtr(4)}, 45, t0.Add(30*time.Minute)))

	assert.Equal(t, 30, s.GrossDurationMin)
	assert.Equal(t, 0, s.NetDurationMin)
	assert.Nil(t, s.ProductivityM2PerH)
	assert.True(t, s.IsWholeJob())
}

func TestCheckoutTruncatesPartialMinutes(t *testing.T) {
	t.Parallel()

	s := domain.NewWorkSession("s-1", "job-1", "item-1", "inst-a", t0, nil, "")

	require.NoError(t, s.Checkout(domain.CheckoutData{}, 0, t0.Add(59*time.Minute+59*time.Second)))

	assert.Equal(t, 59, s.GrossDurationMin)
}

func TestCheckoutRejectsInvalidTags(t *testing.T) {
	t.Parallel()

	level := 0
	height := domain.HeightCategory("roof")
	s := domain.NewWorkSession("s-1", "job-1", "item-1", "inst-a", t0, nil, "")

	require.ErrorIs(t, s.Checkout(domain.CheckoutData{ComplexityLevel: &level}, 0, t0), domain.ErrInvalidComplexity)
	require.ErrorIs(t, s.Checkout(domain.CheckoutData{HeightCategory: &height}, 0, t0), domain.ErrInvalidHeightCategory)
	require.ErrorIs(t, s.Checkout(domain.CheckoutData{InstalledAreaM2: floatPtr(-1)}, 0, t0), domain.ErrInvalidArea)
	assert.Equal(t, domain.SessionInProgress, s.Status)
}

func TestProductivity(t *testing.T) {
	t.Parallel()

	v := domain.Productivity(floatPtr(25.5), 60)
	require.NotNil(t, v)
	assert.InDelta(t, 25.5, *v, 1e-9)

	assert.Nil(t, domain.Productivity(floatPtr(25.5), 0))
	assert.Nil(t, domain.Productivity(nil, 60))
	assert.Nil(t, domain.Productivity(floatPtr(0), 60))
}

func TestTotalPauseMinutesIgnoresOpenPauses(t *testing.T) {
	t.Parallel()

	five, three := 5, 3
	pauses := []domain.PauseLog{
		{DurationMin: &five},
		{DurationMin: &three},
		{},
	}

	assert.Equal(t, 8, domain.TotalPauseMinutes(pauses))
}
