package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend returns canned titles or a canned error.
type fakeBackend struct {
	name   string
	titles []string
	err    error
	calls  int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Lookup(ctx context.Context, query string) ([]string, error) {
	f.calls++
	return f.titles, f.err
}

func (f *fakeBackend) Search(ctx context.Context, query string) ([]Result, error) {
	f.calls++
	results := make([]Result, 0, len(f.titles))
	for _, title := range f.titles {
		results = append(results, Result{Title: title})
	}
	return results, f.err
}

func TestValidateTopic_PrimaryHit(t *testing.T) {
	primary := &fakeBackend{name: "primary", titles: []string{"Goroutines"}}
	secondary := &fakeBackend{name: "secondary"}
	v := NewGroundingValidatorWith(primary, secondary)

	confidence, err := v.ValidateTopic(context.Background(), "Goroutines")
	require.NoError(t, err)
	assert.Equal(t, 1.0, confidence)
	assert.Equal(t, 0, secondary.calls, "secondary must not be consulted on a primary hit")
}

func TestValidateTopic_FallsBackWhenPrimaryEmpty(t *testing.T) {
	primary := &fakeBackend{name: "primary", titles: []string{"unrelated"}}
	secondary := &fakeBackend{name: "secondary", titles: []string{"Goroutines"}}
	v := NewGroundingValidatorWith(primary, secondary)

	confidence, err := v.ValidateTopic(context.Background(), "Goroutines")
	require.NoError(t, err)
	// An exact secondary match is capped below a primary exact match.
	assert.Equal(t, 0.85, confidence)
	assert.Equal(t, 1, secondary.calls)
}

func TestValidateTopic_FallsBackOnPrimaryError(t *testing.T) {
	primary := &fakeBackend{name: "primary", err: fmt.Errorf("HTTP 503")}
	secondary := &fakeBackend{name: "secondary", titles: []string{"Channels"}}
	v := NewGroundingValidatorWith(primary, secondary)

	confidence, err := v.ValidateTopic(context.Background(), "Channels")
	require.NoError(t, err)
	assert.Equal(t, 0.85, confidence)
}

func TestValidateTopic_BothFail(t *testing.T) {
	primary := &fakeBackend{name: "primary", err: fmt.Errorf("HTTP 503")}
	secondary := &fakeBackend{name: "secondary", err: fmt.Errorf("HTTP 500")}
	v := NewGroundingValidatorWith(primary, secondary)

	confidence, err := v.ValidateTopic(context.Background(), "Channels")
	assert.Error(t, err)
	assert.Equal(t, 0.0, confidence)
}

func TestValidateTopic_NoSecondary(t *testing.T) {
	primary := &fakeBackend{name: "primary", titles: nil}
	v := NewGroundingValidatorWith(primary, nil)

	confidence, err := v.ValidateTopic(context.Background(), "Channels")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, confidence)
}
