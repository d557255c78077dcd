package bundler_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpack/internal/adapters/compress"
	"go.trai.ch/assetpack/internal/adapters/css"
	"go.trai.ch/assetpack/internal/adapters/fs"
	"go.trai.ch/assetpack/internal/adapters/probe"
	"go.trai.ch/assetpack/internal/adapters/source"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/assetpack/internal/engine/bundler"
)

var logoPNG = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x01}

type fixture struct {
	root string
	cfg  *domain.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"css/reset.css":   "html{margin:0}",
		"css/app.css":     "body { background: url(../images/logo.png); }",
		"css/embed.css":   "body { background: url(logo.png?embed); }",
		"css/_draft.css":  "draft{}",
		"css/logo.png":    string(logoPNG),
		"images/logo.png": string(logoPNG),
		"js/a.js":         "var a = 1;",
		"js/b.js":         "var b = 2;",
	}
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		require.NoError(t, os.Chtimes(p, stamp, stamp))
	}

	return &fixture{
		root: root,
		cfg: &domain.Config{
			Root:         root,
			Mode:         domain.ModeProduction,
			Host:         "https://cdn.example.com",
			OutputDir:    filepath.Join(root, "public"),
			Ignore:       domain.DefaultIgnore,
			Fingerprint:  domain.FingerprintMTime,
			ProbeTimeout: time.Second,
			Mounts:       []domain.Mount{{Route: "/", From: root}},
			Engines:      map[domain.Kind]domain.Engine{domain.KindStyle: {Name: "simple"}},
			Packages: []domain.Package{
				{Name: "site", Kind: domain.KindStyle, Path: "/css/site.css", Filespecs: []string{"css/reset.css", "css/app.css"}},
				{Name: "app", Kind: domain.KindScript, Path: "/js/app.js", Filespecs: []string{"/js/*.js"}},
			},
		},
	}
}

func (f *fixture) deps(prober ports.RemoteProber) bundler.Deps {
	resolver := fs.NewResolver(fs.NewWalker(), f.cfg.Mounts, f.cfg.Ignore, f.cfg.Strict)
	buster := fs.NewBuster(f.cfg.Fingerprint)
	return bundler.Deps{
		Resolver: resolver,
		Buster:   buster,
		Fetcher:  source.NewDisk(),
		Rewriter: css.NewRewriter(resolver, buster, f.cfg.Host),
		Engines:  compress.NewRegistry(compress.NewNone(), compress.NewSimple(), compress.NewMinify()),
		Prober:   prober,
		Verifier: fs.NewVerifier(),
	}
}

func (f *fixture) set(t *testing.T, mode domain.Mode, prober ports.RemoteProber) *bundler.Set {
	t.Helper()
	set, err := bundler.NewSet(f.cfg, mode, f.deps(prober))
	require.NoError(t, err)
	return set
}

func (f *fixture) pkg(t *testing.T, mode domain.Mode, name string) *bundler.Package {
	t.Helper()
	p, err := f.set(t, mode, nil).Get(name)
	require.NoError(t, err)
	return p
}

func TestPackage_RenderProduction_Scenario(t *testing.T) {
	f := newFixture(t)
	site := f.pkg(t, domain.ModeProduction, "site")

	markup, err := site.RenderProduction(nil)
	require.NoError(t, err)

	assert.Regexp(t, `^<link rel="stylesheet" href="https://cdn\.example\.com/css/site\.[a-f0-9]{16}\.css" />$`, markup)
}

func TestPackage_RenderDevelopment(t *testing.T) {
	f := newFixture(t)
	app := f.pkg(t, domain.ModeDevelopment, "app")

	markup, err := app.RenderDevelopment(map[string]string{"defer": "defer", "data-x": `a"b`, "src": "ignored"})
	require.NoError(t, err)

	lines := strings.Split(markup, "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, `^<script src="/js/a\.[a-f0-9]{16}\.js" data-x="a&#34;b" defer="defer"></script>$`, lines[0])
	assert.Regexp(t, `^<script src="/js/b\.[a-f0-9]{16}\.js" data-x="a&#34;b" defer="defer"></script>$`, lines[1])

	rendered, err := app.Render(nil)
	require.NoError(t, err)
	assert.NotContains(t, rendered, "cdn.example.com")
}

func TestPackage_FilesAndPaths_IgnoresAndOrders(t *testing.T) {
	f := newFixture(t)
	f.cfg.Packages[0].Filespecs = []string{"/css/app.css", "/css/*.css"}
	site := f.pkg(t, domain.ModeDevelopment, "site")

	set, err := site.FilesAndPaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"/css/app.css", "/css/embed.css", "/css/reset.css"}, set.Routes())
	for _, route := range set.Routes() {
		assert.NotContains(t, route, "_draft")
	}
}

func TestPackage_Build_RoundTrip(t *testing.T) {
	f := newFixture(t)
	site := f.pkg(t, domain.ModeProduction, "site")

	first, err := site.Build(context.Background())
	require.NoError(t, err)
	path1, err := site.ProductionPath()
	require.NoError(t, err)

	// A fresh package with nothing memoized produces the same result.
	again := f.pkg(t, domain.ModeProduction, "site")
	second, err := again.Build(context.Background())
	require.NoError(t, err)
	path2, err := again.ProductionPath()
	require.NoError(t, err)

	assert.Equal(t, path1, path2)
	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, path1, first.Path)
	assert.Equal(t, "site", first.Package)
	assert.Equal(t, domain.KindStyle, first.Kind)

	content := string(first.Content)
	assert.True(t, strings.HasPrefix(content, "html{margin:0}"))
	assert.Regexp(t, `url\(https://cdn\.example\.com/images/logo\.[a-f0-9]{16}\.png\)`, content)
}

func TestPackage_Build_ScriptsCombinedInOrder(t *testing.T) {
	f := newFixture(t)
	app := f.pkg(t, domain.ModeProduction, "app")

	artifact, err := app.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "var a = 1;\nvar b = 2;", string(artifact.Content))
}

func TestPackage_Build_Embed(t *testing.T) {
	f := newFixture(t)
	f.cfg.Packages[0].Filespecs = []string{"/css/embed.css"}
	f.cfg.Engines = nil
	site := f.pkg(t, domain.ModeProduction, "site")

	artifact, err := site.Build(context.Background())
	require.NoError(t, err)

	assert.Contains(t, string(artifact.Content), "url(data:image/png;base64,"+base64.StdEncoding.EncodeToString(logoPNG)+")")
}

func TestPackage_Build_UnreadableSource(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read unreadable files")
	}
	f := newFixture(t)
	site := f.pkg(t, domain.ModeDevelopment, "site")
	require.NoError(t, os.Chmod(filepath.Join(f.root, "css", "app.css"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(f.root, "css", "app.css"), 0o600) })

	_, err := site.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnreadableSource)
	assert.Contains(t, err.Error(), "failed to combine package")
}

func TestPackage_Fingerprint_Memoization(t *testing.T) {
	f := newFixture(t)
	prod := f.pkg(t, domain.ModeProduction, "app")
	dev := f.pkg(t, domain.ModeDevelopment, "app")

	prodBefore, err := prod.Fingerprint()
	require.NoError(t, err)
	devBefore, err := dev.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, prodBefore, devBefore)

	later := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(f.root, "js", "b.js"), later, later))

	prodAfter, err := prod.Fingerprint()
	require.NoError(t, err)
	devAfter, err := dev.Fingerprint()
	require.NoError(t, err)

	assert.Equal(t, prodBefore, prodAfter, "production fingerprints are memoized")
	assert.NotEqual(t, devBefore, devAfter, "development fingerprints follow the filesystem")
}

func TestPackage_CacheKey(t *testing.T) {
	f := newFixture(t)

	key, err := f.pkg(t, domain.ModeProduction, "site").CacheKey()
	require.NoError(t, err)
	assert.Equal(t, "site.css", key)

	dev := f.pkg(t, domain.ModeDevelopment, "site")
	key, err = dev.CacheKey()
	require.NoError(t, err)
	fp, err := dev.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, "site.css/"+fp, key)
}

func TestPackage_RouteRegex(t *testing.T) {
	f := newFixture(t)
	site := f.pkg(t, domain.ModeProduction, "site")

	assert.True(t, site.Matches("/css/site.css"))
	assert.True(t, site.Matches("/css/site.0123456789abcdef.css"))
	assert.False(t, site.Matches("/css/site.0123.min.css"))
	assert.False(t, site.Matches("/css/siteXcss"))
	assert.False(t, site.Matches("/css/app.css"))
}

func TestPackage_AlreadyBuilt(t *testing.T) {
	var remoteStatus int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(remoteStatus)
	}))
	defer srv.Close()

	t.Run("local file exists while remote fails", func(t *testing.T) {
		f := newFixture(t)
		remoteStatus = http.StatusInternalServerError
		site := f.pkgWithProber(t, probe.NewHTTPProber(srv.URL, time.Second, nil, nil))

		path, err := site.ProductionPath()
		require.NoError(t, err)
		_, err = fs.NewWriter().Write(f.cfg.OutputDir, path, []byte("built"))
		require.NoError(t, err)

		assert.True(t, site.AlreadyBuilt(context.Background()))
	})

	t.Run("only remote exists", func(t *testing.T) {
		f := newFixture(t)
		remoteStatus = http.StatusOK
		site := f.pkgWithProber(t, probe.NewHTTPProber(srv.URL, time.Second, nil, nil))

		assert.True(t, site.AlreadyBuilt(context.Background()))
	})

	t.Run("neither exists", func(t *testing.T) {
		f := newFixture(t)
		remoteStatus = http.StatusNotFound
		site := f.pkgWithProber(t, probe.NewHTTPProber(srv.URL, time.Second, nil, nil))

		assert.False(t, site.AlreadyBuilt(context.Background()))
	})

	t.Run("remote unreachable", func(t *testing.T) {
		f := newFixture(t)
		site := f.pkgWithProber(t, probe.NewHTTPProber("http://127.0.0.1:1", 100*time.Millisecond, nil, nil))

		assert.False(t, site.AlreadyBuilt(context.Background()))
	})

	t.Run("resolution error", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Strict = true
		f.cfg.Packages[0].Filespecs = []string{"/css/missing.css"}
		remoteStatus = http.StatusOK
		site := f.pkgWithProber(t, probe.NewHTTPProber(srv.URL, time.Second, nil, nil))

		assert.False(t, site.AlreadyBuilt(context.Background()))
	})
}

func (f *fixture) pkgWithProber(t *testing.T, prober ports.RemoteProber) *bundler.Package {
	t.Helper()
	p, err := f.set(t, domain.ModeProduction, prober).Get("site")
	require.NoError(t, err)
	return p
}

func TestSet(t *testing.T) {
	f := newFixture(t)
	set := f.set(t, domain.ModeProduction, nil)

	assert.Equal(t, []string{"site", "app"}, set.Names())

	p, ok := set.Match("/js/app.0123456789abcdef.js")
	require.True(t, ok)
	assert.Equal(t, "app", p.Name())

	_, ok = set.Match("/js/other.js")
	assert.False(t, ok)

	_, err := set.Get("missing")
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)

	selected, err := set.Select([]string{"app"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "app", selected[0].Name())

	all, err := set.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestNewSet_ConfigurationErrors(t *testing.T) {
	t.Run("unknown engine", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Engines[domain.KindScript] = domain.Engine{Name: "closure"}

		_, err := bundler.NewSet(f.cfg, domain.ModeProduction, f.deps(nil))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownEngine)
	})

	t.Run("engine without kind support", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Engines[domain.KindScript] = domain.Engine{Name: "simple"}

		_, err := bundler.NewSet(f.cfg, domain.ModeProduction, f.deps(nil))
		assert.ErrorIs(t, err, domain.ErrUnknownEngine)
	})

	t.Run("malformed filespec", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Packages[1].Filespecs = []string{"/js/[a-.js"}

		_, err := bundler.NewSet(f.cfg, domain.ModeProduction, f.deps(nil))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidFilespec)
		assert.True(t, domain.IsConfigurationError(err))
	})
}
