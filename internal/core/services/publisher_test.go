package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driven"
)

func TestResolveSpaceID_ExplicitIDWins(t *testing.T) {
	p := NewPublisher(newFakePageStore())

	id, err := p.ResolveSpaceID(context.Background(), "42", "DOCS")
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestResolveSpaceID_KeyResolved(t *testing.T) {
	p := NewPublisher(newFakePageStore())

	id, err := p.ResolveSpaceID(context.Background(), "", "DOCS")
	require.NoError(t, err)
	assert.Equal(t, "10", id)
}

func TestResolveSpaceID_NeitherGiven(t *testing.T) {
	p := NewPublisher(newFakePageStore())

	_, err := p.ResolveSpaceID(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrMissingSpace)
}

func TestResolveSpaceID_UnknownKey(t *testing.T) {
	p := NewPublisher(newFakePageStore())

	_, err := p.ResolveSpaceID(context.Background(), "", "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPublisherCreate_RequiresSpace(t *testing.T) {
	p := NewPublisher(newFakePageStore())

	_, err := p.Create(context.Background(), "", "Home", "", "<p>x</p>")
	assert.ErrorIs(t, err, domain.ErrMissingSpace)
}

func TestPublisherUpdate_BumpsVersionByOne(t *testing.T) {
	store := newFakePageStore()
	p := NewPublisher(store)

	created, err := p.Create(context.Background(), "10", "Home", "", "<p>v1</p>")
	require.NoError(t, err)
	require.Equal(t, 1, created.Version)

	updated, err := p.Update(context.Background(), created.ID, "10", "Home", "<p>v2</p>", "msg")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	again, err := p.Update(context.Background(), created.ID, "10", "Home", "<p>v3</p>", "msg")
	require.NoError(t, err)
	assert.Equal(t, 3, again.Version)
	assert.Equal(t, "<p>v3</p>", again.Body)
}

func TestPublisherUpdate_EmptyTitleKeepsCurrent(t *testing.T) {
	store := newFakePageStore()
	p := NewPublisher(store)

	created, err := p.Create(context.Background(), "10", "Home", "", "<p>x</p>")
	require.NoError(t, err)

	updated, err := p.Update(context.Background(), created.ID, "10", "", "<p>y</p>", "msg")
	require.NoError(t, err)
	assert.Equal(t, "Home", updated.Title)
}

func TestPublisherUpdate_RequiresPageID(t *testing.T) {
	p := NewPublisher(newFakePageStore())

	_, err := p.Update(context.Background(), "", "10", "Home", "<p>x</p>", "msg")
	assert.ErrorIs(t, err, domain.ErrMissingPage)
}

func TestPublisherCreate_ForwardsParent(t *testing.T) {
	store := &parentRecordingStore{fakePageStore: newFakePageStore()}
	p := NewPublisher(store)

	_, err := p.Create(context.Background(), "10", "Child", "p99", "<p>x</p>")
	require.NoError(t, err)
	assert.Equal(t, "p99", store.lastParent)
}

// parentRecordingStore captures the parent id passed to CreatePage.
type parentRecordingStore struct {
	*fakePageStore
	lastParent string
}

func (s *parentRecordingStore) CreatePage(ctx context.Context, input driven.CreatePageInput) (*domain.Page, error) {
	s.lastParent = input.ParentID
	return s.fakePageStore.CreatePage(ctx, input)
}
