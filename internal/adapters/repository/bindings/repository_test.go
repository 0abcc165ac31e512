package bindings_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/drc/internal/adapters/repository/bindings"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

func testBinding(name string) *domain.Binding {
	return &domain.Binding{
		Domain:      name,
		DappAddress: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Admin:       common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		PendingTransition: &domain.PendingTransition{
			ProposedAddress: common.HexToAddress("0x2222222222222222222222222222222222222222"),
			Proposer:        common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
			RecordedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()

	repos := map[string]func(t *testing.T) usecase.BindingRepository{
		"memory": func(t *testing.T) usecase.BindingRepository {
			return bindings.NewMemoryRepository()
		},
		"file": func(t *testing.T) usecase.BindingRepository {
			r, err := bindings.NewFileRepository(t.TempDir())
			require.NoError(t, err)
			return r
		},
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			t.Run("missing binding is not found", func(t *testing.T) {
				repo := newRepo(t)
				_, err := repo.GetBinding(ctx, "x.com")
				assert.ErrorIs(t, err, domain.ErrNotFound)
			})

			t.Run("save and get", func(t *testing.T) {
				repo := newRepo(t)
				b := testBinding("x.com")
				require.NoError(t, repo.SaveBinding(ctx, b))

				got, err := repo.GetBinding(ctx, "x.com")
				require.NoError(t, err)
				assert.Equal(t, b, got)
			})

			t.Run("returned bindings are copies", func(t *testing.T) {
				repo := newRepo(t)
				require.NoError(t, repo.SaveBinding(ctx, testBinding("x.com")))

				got, err := repo.GetBinding(ctx, "x.com")
				require.NoError(t, err)
				got.PendingTransition.Proposer = common.Address{}
				got.Admin = common.Address{}

				again, err := repo.GetBinding(ctx, "x.com")
				require.NoError(t, err)
				assert.Equal(t, testBinding("x.com"), again)
			})

			t.Run("list sorted by domain", func(t *testing.T) {
				repo := newRepo(t)
				require.NoError(t, repo.SaveBinding(ctx, testBinding("z.io")))
				require.NoError(t, repo.SaveBinding(ctx, testBinding("a.io")))

				all, err := repo.ListBindings(ctx)
				require.NoError(t, err)
				require.Len(t, all, 2)
				assert.Equal(t, "a.io", all[0].Domain)
				assert.Equal(t, "z.io", all[1].Domain)
			})
		})
	}
}

func TestFileRepository_Reload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := bindings.NewFileRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBinding(ctx, testBinding("x.com")))
	assert.FileExists(t, filepath.Join(dir, bindings.BindingsFile))

	reloaded, err := bindings.NewFileRepository(dir)
	require.NoError(t, err)
	got, err := reloaded.GetBinding(ctx, "x.com")
	require.NoError(t, err)
	assert.Equal(t, testBinding("x.com"), got)
}

func TestFileRepository_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, bindings.BindingsFile), []byte("not json"), 0644))

	_, err := bindings.NewFileRepository(dir)
	assert.Error(t, err)
}

func TestFileRepository_SharedDirectory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cli, err := bindings.NewFileRepository(dir)
	require.NoError(t, err)
	server, err := bindings.NewFileRepository(dir)
	require.NoError(t, err)

	require.NoError(t, cli.SaveBinding(ctx, testBinding("a.com")))
	require.NoError(t, server.SaveBinding(ctx, testBinding("b.com")))

	reloaded, err := bindings.NewFileRepository(dir)
	require.NoError(t, err)
	for _, name := range []string{"a.com", "b.com"} {
		_, err := reloaded.GetBinding(ctx, name)
		assert.NoError(t, err, name)
	}

	// updates start from what the other instance wrote
	err = server.UpdateBinding(ctx, "a.com", func(current *domain.Binding) (*domain.Binding, error) {
		require.NotNil(t, current)
		current.PendingTransition = nil
		return current, nil
	})
	require.NoError(t, err)

	got, err := cli.GetBinding(ctx, "a.com")
	require.NoError(t, err)
	assert.Nil(t, got.PendingTransition)

	all, err := cli.ListBindings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositories_UpdateBinding(t *testing.T) {
	ctx := context.Background()

	repos := map[string]func(t *testing.T) usecase.BindingRepository{
		"memory": func(t *testing.T) usecase.BindingRepository {
			return bindings.NewMemoryRepository()
		},
		"file": func(t *testing.T) usecase.BindingRepository {
			r, err := bindings.NewFileRepository(t.TempDir())
			require.NoError(t, err)
			return r
		},
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)

			err := repo.UpdateBinding(ctx, "x.com", func(current *domain.Binding) (*domain.Binding, error) {
				assert.Nil(t, current)
				return testBinding("x.com"), nil
			})
			require.NoError(t, err)

			// a nil result stores nothing
			err = repo.UpdateBinding(ctx, "y.com", func(*domain.Binding) (*domain.Binding, error) {
				return nil, nil
			})
			require.NoError(t, err)
			_, err = repo.GetBinding(ctx, "y.com")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			// an error from fn leaves the binding unchanged
			boom := errors.New("boom")
			err = repo.UpdateBinding(ctx, "x.com", func(current *domain.Binding) (*domain.Binding, error) {
				current.Admin = common.Address{}
				return current, boom
			})
			assert.ErrorIs(t, err, boom)

			got, err := repo.GetBinding(ctx, "x.com")
			require.NoError(t, err)
			assert.Equal(t, testBinding("x.com"), got)
		})
	}
}
