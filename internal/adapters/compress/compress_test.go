package compress_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpack/internal/adapters/compress"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const stylesheet = `/* reset */
body {
  margin : 0;
  color: red;
}
`

const script = `function greet(name) {
  // say hello
  var message = "hello " + name;
  return message;
}
`

func TestRegistry_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := compress.NewDefaultRegistry(mocks.NewMockExecutor(ctrl))

	assert.Equal(t, []string{"command", "esbuild", "minify", "none", "simple"}, registry.Names())

	c, err := registry.Resolve(domain.KindStyle, domain.Engine{Name: "simple"})
	require.NoError(t, err)
	assert.Equal(t, "simple", c.Name())

	_, err = registry.Resolve(domain.KindScript, domain.Engine{Name: "simple"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownEngine)

	_, err = registry.Resolve(domain.KindStyle, domain.Engine{Name: "yui"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownEngine)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestRegistry_Resolve_InvalidOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := compress.NewDefaultRegistry(mocks.NewMockExecutor(ctrl))

	cases := []domain.Engine{
		{Name: "command"},
		{Name: "esbuild", Options: map[string]string{"target": "es1999"}},
		{Name: "esbuild", Options: map[string]string{"keep-names": "maybe"}},
		{Name: "minify", Options: map[string]string{"precision": "-1"}},
		{Name: "none", Options: map[string]string{"level": "9"}},
	}
	for _, engine := range cases {
		_, err := registry.Resolve(domain.KindScript, engine)
		require.Error(t, err, engine.Name)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	}
}

func TestNone_Compress(t *testing.T) {
	out, err := compress.NewNone().Compress(context.Background(), stylesheet, domain.KindStyle, nil)
	require.NoError(t, err)
	assert.Equal(t, stylesheet, out)
}

func TestSimple_Compress(t *testing.T) {
	out, err := compress.NewSimple().Compress(context.Background(), stylesheet, domain.KindStyle, nil)
	require.NoError(t, err)
	assert.Equal(t, "body{margin:0;color:red}", out)
}

func TestMinify_Compress(t *testing.T) {
	engine := compress.NewMinify()

	out, err := engine.Compress(context.Background(), stylesheet, domain.KindStyle, nil)
	require.NoError(t, err)
	assert.Equal(t, "body{margin:0;color:red}", out)

	out, err = engine.Compress(context.Background(), script, domain.KindScript, nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "say hello")
	assert.Less(t, len(out), len(script))
}

func TestEsbuild_Compress(t *testing.T) {
	engine := compress.NewEsbuild()
	require.NoError(t, engine.Validate(domain.KindScript, map[string]string{"target": "es2017", "keep-names": "true"}))

	out, err := engine.Compress(context.Background(), script, domain.KindScript, map[string]string{"target": "es2017"})
	require.NoError(t, err)
	assert.NotContains(t, out, "say hello")
	assert.Less(t, len(out), len(script))

	out, err = engine.Compress(context.Background(), stylesheet, domain.KindStyle, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "body{margin:0;color:red}")

	_, err = engine.Compress(context.Background(), "function (", domain.KindScript, nil)
	require.Error(t, err)
}

func TestCommand_Compress(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	executor.EXPECT().
		Execute(gomock.Any(), []string{"uglifyjs", "-c"}, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []string, stdin io.Reader, stdout io.Writer) error {
			in, err := io.ReadAll(stdin)
			if err != nil {
				return err
			}
			_, err = io.WriteString(stdout, strings.ToUpper(string(in)))
			return err
		})

	engine := compress.NewCommand(executor)
	out, err := engine.Compress(context.Background(), "var a", domain.KindScript, map[string]string{"cmd": "uglifyjs -c"})

	require.NoError(t, err)
	assert.Equal(t, "VAR A", out)
}
