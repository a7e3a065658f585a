package yaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/artex"
	artexyaml "github.com/fwojciec/artex/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func writeRule(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRepository_LoadDir(t *testing.T) {
	t.Parallel()

	t.Run("loads rules from yaml files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeRule(t, dir, "example.yml", `
site: example.com
main_selector: article
remove_selectors:
  - .ad
  - .related
lazy_attrs:
  - data-src
max_br_run: 2
convert_imgur: true
`)
		writeRule(t, dir, "other.yaml", `
site: other.example.org
main_selector: ".entry-content"
`)
		writeRule(t, dir, "notes.txt", "ignored")

		repo := artexyaml.NewRepository()
		require.NoError(t, repo.LoadDir(dir))

		rule, ok := repo.RuleFor("example.com")
		require.True(t, ok)
		assert.Equal(t, "article", rule.MainSelector)
		assert.Equal(t, []string{".ad", ".related"}, rule.RemoveSelectors)
		assert.Equal(t, []string{"data-src"}, rule.LazyAttrs)
		assert.Equal(t, 2, rule.MaxBrRun)
		assert.True(t, rule.ConvertImgur)

		_, ok = repo.RuleFor("other.example.org")
		assert.True(t, ok)

		assert.Equal(t, []string{"example.com", "other.example.org"}, repo.Sites())
	})

	t.Run("rejects a rule without a site", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeRule(t, dir, "broken.yml", "main_selector: article\n")

		repo := artexyaml.NewRepository()
		err := repo.LoadDir(dir)

		require.Error(t, err)
		assert.Equal(t, artex.EINVALID, artex.ErrorCode(err))
	})

	t.Run("rejects a rule without a selector", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeRule(t, dir, "broken.yml", "site: example.com\n")

		repo := artexyaml.NewRepository()
		err := repo.LoadDir(dir)

		require.Error(t, err)
		assert.Equal(t, artex.EINVALID, artex.ErrorCode(err))
	})

	t.Run("rejects invalid yaml", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeRule(t, dir, "broken.yml", "site: [unclosed\n")

		repo := artexyaml.NewRepository()
		err := repo.LoadDir(dir)

		require.Error(t, err)
	})
}

func TestRepository_Register(t *testing.T) {
	t.Parallel()

	t.Run("registers a custom root rule", func(t *testing.T) {
		t.Parallel()

		repo := artexyaml.NewRepository()
		err := repo.Register(artex.ExtractionRule{
			Site: "special.example.com",
			Root: func(doc *html.Node) []*html.Node { return nil },
		})

		require.NoError(t, err)
		rule, ok := repo.RuleFor("special.example.com")
		require.True(t, ok)
		assert.NotNil(t, rule.Root)
	})

	t.Run("replaces an existing rule for the same site", func(t *testing.T) {
		t.Parallel()

		repo := artexyaml.NewRepository()
		require.NoError(t, repo.Register(artex.ExtractionRule{Site: "example.com", MainSelector: "article"}))
		require.NoError(t, repo.Register(artex.ExtractionRule{Site: "example.com", MainSelector: ".post"}))

		rule, ok := repo.RuleFor("example.com")
		require.True(t, ok)
		assert.Equal(t, ".post", rule.MainSelector)
	})

	t.Run("unknown site is not found", func(t *testing.T) {
		t.Parallel()

		repo := artexyaml.NewRepository()

		_, ok := repo.RuleFor("unknown.example.com")
		assert.False(t, ok)
	})
}
