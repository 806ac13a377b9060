package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closer struct {
	closed int
	done   chan struct{}
}

func (c *closer) Close() error {
	if c.closed == 0 {
		close(c.done)
	}
	c.closed++
	return nil
}

func TestRunnerWait(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	testCases := []struct {
		errs     []error
		expected []error
	}{
		{[]error{nil, nil}, nil},
		{[]error{context.Canceled, nil}, nil},
		{[]error{errA, context.Canceled}, []error{errA}},
		{[]error{errA, errB}, []error{errA, errB}},
	}
	for _, tc := range testCases {
		r := NewRunner()
		for n, err := range tc.errs {
			err := err
			r.Go(NamedRun(string(rune('a'+n)), RunnableFunc(func(context.Context) error {
				return err
			})))
		}
		err := r.Wait()
		if len(tc.expected) == 0 {
			assert.NoError(t, err)
			continue
		}
		require.Error(t, err)
		for _, expected := range tc.expected {
			assert.ErrorIs(t, err, expected)
		}
		if len(tc.expected) > 1 {
			var agg *AggregatedError
			require.ErrorAs(t, err, &agg)
			assert.Len(t, agg.Errors, len(tc.expected))
		}
	}
}

func TestNamedRun(t *testing.T) {
	r := NamedRun("session", RunnableFunc(func(context.Context) error { return nil }))
	named, ok := r.(Named)
	require.True(t, ok)
	assert.Equal(t, "session", named.Name())
}

func TestRunWithContextCloser(t *testing.T) {
	c := &closer{done: make(chan struct{})}
	err := RunWithContextCloser(context.Background(), c, func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, 1, c.closed)

	c = &closer{done: make(chan struct{})}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = RunWithContextCloser(ctx, c, func() error {
		<-c.done
		return errors.New("closed")
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, c.closed)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	assert.NoError(t, errs.Add(nil, nil).Aggregate())
	single := errors.New("single")
	assert.Same(t, single, errs.Add(single).Aggregate())
	err := errs.Add(errors.New("other")).Aggregate()
	assert.Equal(t, "multiple errors:\n  single\n  other", err.Error())
}
