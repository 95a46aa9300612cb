package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david-TxRxSystems/scripts/pkg/errors"
)

func ok(id string) *Step {
	return &Step{
		ID:   id,
		Desc: id,
		Run: func(ctx context.Context) (Report, error) {
			return Report{}, nil
		},
	}
}

func failing(id string) *Step {
	s := ok(id)
	s.Run = func(ctx context.Context) (Report, error) {
		return Report{}, errors.Newf(errors.ErrActionFailure, "%s blew up", id)
	}
	return s
}

func absent(id string) *Step {
	s := ok(id)
	s.Run = func(ctx context.Context) (Report, error) {
		return Report{}, errors.Newf(errors.ErrSourceAbsent, "%s has nothing to do", id)
	}
	return s
}

func TestRun_AllDone(t *testing.T) {
	r := NewRunner(Options{})

	summary, err := r.Run(context.Background(), []*Step{ok("a"), ok("b"), ok("c")})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Done)
	assert.Equal(t, 0, summary.Skipped)
	assert.True(t, summary.Clean())
}

func TestRun_ExecutionOrderIsListOrder(t *testing.T) {
	var order []string
	mk := func(id string) *Step {
		return &Step{ID: id, Desc: id, Run: func(ctx context.Context) (Report, error) {
			order = append(order, id)
			return Report{}, nil
		}}
	}

	_, err := NewRunner(Options{}).Run(context.Background(),
		[]*Step{mk("first"), mk("second"), mk("third")})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestRun_FailureAbortsRest(t *testing.T) {
	ran := false
	after := ok("after")
	after.Run = func(ctx context.Context) (Report, error) {
		ran = true
		return Report{}, nil
	}

	summary, err := NewRunner(Options{}).Run(context.Background(),
		[]*Step{ok("a"), failing("boom"), after})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrActionFailure))
	assert.False(t, ran, "steps after a failure must not run")
	assert.Equal(t, 1, summary.Done)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, summary.Results, 2)
}

func TestRun_RecoverableErrorSkips(t *testing.T) {
	summary, err := NewRunner(Options{}).Run(context.Background(),
		[]*Step{absent("missing"), ok("b")})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Done)
	assert.Equal(t, StatusSkipped, summary.Results[0].Status)
	assert.Equal(t, "missing has nothing to do", summary.Results[0].Reason)
}

func TestRun_SkippedPrerequisiteSkipsDependent(t *testing.T) {
	dependentRan := false
	dependent := &Step{
		ID:    "apply",
		Desc:  "apply",
		Needs: []string{"declare"},
		Run: func(ctx context.Context) (Report, error) {
			dependentRan = true
			return Report{}, nil
		},
	}

	summary, err := NewRunner(Options{}).Run(context.Background(),
		[]*Step{absent("declare"), dependent, ok("independent")})

	require.NoError(t, err)
	assert.False(t, dependentRan, "dependent of a skipped step must not run")
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.Done)
	assert.Contains(t, summary.Results[1].Reason, "declare")
}

func TestRun_SkipPropagatesTransitively(t *testing.T) {
	b := ok("b")
	b.Needs = []string{"a"}
	c := ok("c")
	c.Needs = []string{"b"}

	summary, err := NewRunner(Options{}).Run(context.Background(),
		[]*Step{absent("a"), b, c})

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, 0, summary.Done)
}

func TestRun_DryRunExecutesNothing(t *testing.T) {
	executed := false
	s := ok("real")
	s.Run = func(ctx context.Context) (Report, error) {
		executed = true
		return Report{}, nil
	}
	dependent := ok("dep")
	dependent.Needs = []string{"real"}

	summary, err := NewRunner(Options{DryRun: true}).Run(context.Background(),
		[]*Step{s, dependent})

	require.NoError(t, err)
	assert.False(t, executed)
	assert.Equal(t, 2, summary.Planned)
	assert.Equal(t, 0, summary.Done)
	// Dry-run treats every step as satisfied so dependents are announced too.
	assert.Equal(t, StatusPlanned, summary.Results[1].Status)
}

func TestRun_CancelledBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	first := ok("first")
	first.Run = func(ctx context.Context) (Report, error) {
		cancel()
		return Report{}, nil
	}
	second := ok("second")

	summary, err := NewRunner(Options{}).Run(ctx, []*Step{first, second})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInterrupted))
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 1, summary.Done)
	assert.Len(t, summary.Results, 1, "second step must not be attempted")
}

func TestRun_InterruptedStepMarksSummary(t *testing.T) {
	s := ok("child")
	s.Run = func(ctx context.Context) (Report, error) {
		return Report{}, errors.New(errors.ErrInterrupted, "child killed")
	}

	summary, err := NewRunner(Options{}).Run(context.Background(), []*Step{s})

	require.Error(t, err)
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 1, summary.Failed)
}

func TestRun_PerItemFailuresCollected(t *testing.T) {
	s := ok("installs")
	s.Run = func(ctx context.Context) (Report, error) {
		return Report{Message: "2 of 4 failed", FailedItems: []string{"org.bad.One", "org.bad.Two"}}, nil
	}

	summary, err := NewRunner(Options{}).Run(context.Background(), []*Step{s, ok("after")})

	require.NoError(t, err, "per-item failures do not abort the run")
	assert.Equal(t, 2, summary.Done)
	assert.Equal(t, []string{"org.bad.One", "org.bad.Two"}, summary.FailedItems)
	assert.False(t, summary.Clean())
}

func TestRun_OnResultCallback(t *testing.T) {
	var statuses []Status
	r := NewRunner(Options{OnResult: func(res Result) {
		statuses = append(statuses, res.Status)
	}})

	_, err := r.Run(context.Background(), []*Step{ok("a"), absent("b")})
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusDone, StatusSkipped}, statuses)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		list    []*Step
		wantErr string
	}{
		{
			name: "valid list",
			list: []*Step{ok("a"), {ID: "b", Needs: []string{"a"}, Run: ok("x").Run}},
		},
		{
			name:    "empty id",
			list:    []*Step{{Run: ok("x").Run}},
			wantErr: "empty id",
		},
		{
			name:    "duplicate id",
			list:    []*Step{ok("a"), ok("a")},
			wantErr: "duplicate",
		},
		{
			name:    "needs later step",
			list:    []*Step{{ID: "a", Needs: []string{"b"}, Run: ok("x").Run}, ok("b")},
			wantErr: "does not precede",
		},
		{
			name:    "needs unknown step",
			list:    []*Step{{ID: "a", Needs: []string{"ghost"}, Run: ok("x").Run}},
			wantErr: "does not precede",
		},
		{
			name:    "needs itself",
			list:    []*Step{{ID: "a", Needs: []string{"a"}, Run: ok("x").Run}},
			wantErr: "needs itself",
		},
		{
			name:    "missing body",
			list:    []*Step{{ID: "a"}},
			wantErr: "no body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.list)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrStepOrder))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_InvalidListRunsNothing(t *testing.T) {
	ran := false
	s := ok("a")
	s.Run = func(ctx context.Context) (Report, error) {
		ran = true
		return Report{}, nil
	}

	_, err := NewRunner(Options{}).Run(context.Background(), []*Step{s, s})
	require.Error(t, err)
	assert.False(t, ran)
}
