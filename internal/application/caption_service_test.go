package application

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captionly/captionly/internal/domain/entity"
	repo "github.com/captionly/captionly/internal/domain/repository"
)

type fakeCaptionRepo struct {
	captions  map[string]*entity.Caption
	createErr error
	seq       int
}

func newFakeCaptionRepo() *fakeCaptionRepo {
	return &fakeCaptionRepo{captions: map[string]*entity.Caption{}}
}

func (r *fakeCaptionRepo) Create(_ context.Context, c *entity.Caption) error {
	if r.createErr != nil {
		return r.createErr
	}
	c.ID = uuid.NewString()
	r.seq++
	c.CreatedAt = time.Unix(int64(1700000000+r.seq), 0)
	cp := *c
	r.captions[c.ID] = &cp
	return nil
}

func (r *fakeCaptionRepo) GetOwned(_ context.Context, userID, id string) (*entity.Caption, error) {
	c, ok := r.captions[id]
	if !ok || c.UserID != userID {
		return nil, repo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCaptionRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]entity.Caption, error) {
	var out []entity.Caption
	for _, c := range r.captions {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []entity.Caption{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCaptionRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, c := range r.captions {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCaptionRepo) DeleteOwned(_ context.Context, userID, id string) error {
	c, ok := r.captions[id]
	if !ok || c.UserID != userID {
		return repo.ErrNotFound
	}
	delete(r.captions, id)
	return nil
}

type fakeGenerator struct {
	text string
	err  error
	got  string
}

func (g *fakeGenerator) GenerateCaption(_ context.Context, idea string) (string, error) {
	g.got = idea
	return g.text, g.err
}

func TestCaptionService_Generate(t *testing.T) {
	r := newFakeCaptionRepo()
	gen := &fakeGenerator{text: "  Nice sunset! #sunset  "}
	svc := NewCaptionService(r, gen, nil, nil, "")

	res, err := svc.Generate(context.Background(), "user-1", "sunset at the beach")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Saved)
	assert.Equal(t, "Nice sunset! #sunset", res.Caption.Caption)
	assert.Equal(t, "sunset at the beach", res.Caption.Prompt)
	assert.Equal(t, "user-1", res.Caption.UserID)
	assert.NotEmpty(t, res.Caption.ID)
	assert.Equal(t, "sunset at the beach", gen.got)
	assert.Len(t, r.captions, 1)
}

func TestCaptionService_GenerateEmptyPrompt(t *testing.T) {
	r := newFakeCaptionRepo()
	gen := &fakeGenerator{text: "never used"}
	svc := NewCaptionService(r, gen, nil, nil, "")

	for _, prompt := range []string{"", "   ", "\n\t"} {
		_, err := svc.Generate(context.Background(), "user-1", prompt)
		assert.ErrorIs(t, err, ErrEmptyPrompt)
	}
	// nothing touched the generator or the store
	assert.Empty(t, gen.got)
	assert.Empty(t, r.captions)
}

func TestCaptionService_GenerateUpstreamFailure(t *testing.T) {
	r := newFakeCaptionRepo()
	gen := &fakeGenerator{err: errors.New("upstream 503")}
	svc := NewCaptionService(r, gen, nil, nil, "")

	_, err := svc.Generate(context.Background(), "user-1", "sunset")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Empty(t, r.captions)
}

func TestCaptionService_GeneratePersistFailure(t *testing.T) {
	r := newFakeCaptionRepo()
	r.createErr = errors.New("connection reset")
	gen := &fakeGenerator{text: "Golden hour glow."}
	svc := NewCaptionService(r, gen, nil, nil, "")

	// the generated text still reaches the caller, flagged as unsaved
	res, err := svc.Generate(context.Background(), "user-1", "sunset")
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.Equal(t, "Golden hour glow.", res.Caption.Caption)
	assert.Empty(t, r.captions)
}

func TestCaptionService_ListNewestFirst(t *testing.T) {
	r := newFakeCaptionRepo()
	gen := &fakeGenerator{text: "caption"}
	svc := NewCaptionService(r, gen, nil, nil, "")
	ctx := context.Background()

	for _, prompt := range []string{"first", "second", "third"} {
		_, err := svc.Generate(ctx, "user-1", prompt)
		require.NoError(t, err)
	}
	_, err := svc.Generate(ctx, "user-2", "someone else")
	require.NoError(t, err)

	captions, total, err := svc.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, captions, 3)
	assert.Equal(t, "third", captions[0].Prompt)
	assert.Equal(t, "second", captions[1].Prompt)
	assert.Equal(t, "first", captions[2].Prompt)
}

func TestCaptionService_ListPagination(t *testing.T) {
	r := newFakeCaptionRepo()
	gen := &fakeGenerator{text: "caption"}
	svc := NewCaptionService(r, gen, nil, nil, "")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Generate(ctx, "user-1", "idea")
		require.NoError(t, err)
	}

	captions, total, err := svc.List(ctx, "user-1", 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, captions, 2)

	captions, _, err = svc.List(ctx, "user-1", 2, 4)
	require.NoError(t, err)
	assert.Len(t, captions, 1)

	// past the end yields an empty page, not an error
	captions, _, err = svc.List(ctx, "user-1", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, captions)
}

func TestCaptionService_ListClampsLimit(t *testing.T) {
	r := newFakeCaptionRepo()
	svc := NewCaptionService(r, &fakeGenerator{text: "x"}, nil, nil, "")

	// zero and negative limits fall back to the default; a repo that saw a
	// nonsense limit would return everything, so assert via absence of error
	_, _, err := svc.List(context.Background(), "user-1", 0, -5)
	require.NoError(t, err)
	_, _, err = svc.List(context.Background(), "user-1", 10_000, 0)
	require.NoError(t, err)
}

func TestCaptionService_Get(t *testing.T) {
	r := newFakeCaptionRepo()
	gen := &fakeGenerator{text: "caption"}
	svc := NewCaptionService(r, gen, nil, nil, "")
	ctx := context.Background()

	res, err := svc.Generate(ctx, "user-1", "idea")
	require.NoError(t, err)

	got, err := svc.Get(ctx, "user-1", res.Caption.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Caption.ID, got.ID)
	assert.Equal(t, "idea", got.Prompt)

	// someone else's caption reads like a missing one
	_, err = svc.Get(ctx, "user-2", res.Caption.ID)
	assert.ErrorIs(t, err, ErrCaptionNotFound)

	_, err = svc.Get(ctx, "user-1", uuid.NewString())
	assert.ErrorIs(t, err, ErrCaptionNotFound)
}

func TestCaptionService_Delete(t *testing.T) {
	r := newFakeCaptionRepo()
	gen := &fakeGenerator{text: "caption"}
	svc := NewCaptionService(r, gen, nil, nil, "")
	ctx := context.Background()

	res, err := svc.Generate(ctx, "user-1", "idea")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", res.Caption.ID))
	assert.Empty(t, r.captions)

	// deleting again is indistinguishable from never having existed
	err = svc.Delete(ctx, "user-1", res.Caption.ID)
	assert.ErrorIs(t, err, ErrCaptionNotFound)
}

func TestCaptionService_DeleteNotOwned(t *testing.T) {
	r := newFakeCaptionRepo()
	gen := &fakeGenerator{text: "caption"}
	svc := NewCaptionService(r, gen, nil, nil, "")
	ctx := context.Background()

	res, err := svc.Generate(ctx, "user-1", "idea")
	require.NoError(t, err)

	err = svc.Delete(ctx, "user-2", res.Caption.ID)
	assert.ErrorIs(t, err, ErrCaptionNotFound)
	// the record survives an attempt by the wrong user
	assert.Len(t, r.captions, 1)
}
