package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/empkg/internal/placeholder"
	"github.com/oshokin/empkg/internal/repository/artifact"
)

// TestRun_SubstitutesBothTokens replaces the script token and blanks the preload token.
func TestRun_SubstitutesBothTokens(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.html")
	original := "<head>{{{ PRELOAD }}}</head>\n<body>\n{{{ SCRIPT }}}\n</body>\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o600))

	require.NoError(t, Run(context.Background(), &Options{Project: "app", TemplatePath: path}))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	adapted := string(contents)
	require.NotContains(t, adapted, placeholder.ScriptToken)
	require.NotContains(t, adapted, placeholder.PreloadToken)
	require.True(t, strings.HasPrefix(adapted, "<head> </head>\n<body>\n<script type=\"text/javascript\">"))
	require.True(t, strings.HasSuffix(adapted, "</script>\n</body>\n"))

	block, err := RenderBootstrap("app", ModeAuto)
	require.NoError(t, err)
	require.Equal(t, "<head> </head>\n<body>\n"+block+"\n</body>\n", adapted)
}

// TestRun_RequiresScriptToken fails loudly and leaves the file unchanged.
func TestRun_RequiresScriptToken(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.html")
	original := []byte("<head>{{{ PRELOAD }}}</head>")
	require.NoError(t, os.WriteFile(path, original, 0o600))

	err := Run(context.Background(), &Options{Project: "app", TemplatePath: path})
	require.ErrorIs(t, err, placeholder.ErrMissingSlot)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, original, contents)
}

// TestRun_FixedMode writes a single-path block.
func TestRun_FixedMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(placeholder.ScriptToken), 0o600))

	require.NoError(t, Run(context.Background(), &Options{Project: "game", TemplatePath: path, Mode: ModeFallback}))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "game-asmjs.js")
	require.NotContains(t, string(contents), "game-wasm")
}

// TestRun_Errors reports invalid projects and missing templates.
func TestRun_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(placeholder.ScriptToken), 0o600))

	err := Run(context.Background(), &Options{Project: "bad project", TemplatePath: path})
	require.Error(t, err)

	err = Run(context.Background(), &Options{Project: "app", TemplatePath: filepath.Join(dir, "missing.html")})
	require.ErrorIs(t, err, artifact.ErrNotFound)
}
