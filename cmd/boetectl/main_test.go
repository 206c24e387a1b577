package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boetepot/platform/internal/app"
	"github.com/boetepot/platform/internal/domain"
	"github.com/boetepot/platform/internal/repository"
	"github.com/boetepot/platform/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

func startServer(t *testing.T) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hash, err := bcrypt.GenerateFromPassword([]byte("geheim"), bcrypt.MinCost)
	require.NoError(t, err)
	auth, err := service.NewAuthService(hash, nil, logger)
	require.NoError(t, err)

	srv := httptest.NewServer(app.NewRouter(app.RouterDeps{
		Store:               repository.NewMemoryStore(),
		Auth:                auth,
		Logger:              logger,
		DefaultReasonAmount: domain.MustParseAmount("5.00"),
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func runCLI(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp(&out)
	a.ExitErrHandler = func(*cli.Context, error) {}
	err := a.Run(append([]string{"boetectl", "--server", server}, args...))
	return out.String(), err
}

func TestBoetectl_Session(t *testing.T) {
	server := startServer(t)

	_, err := runCLI(t, server, "--password", "geheim", "fine", "add", "Jan", "5", "Te laat")
	require.NoError(t, err)
	_, err = runCLI(t, server, "--password", "geheim", "fine", "add", "Piet", "7.50", "Telefoon")
	require.NoError(t, err)

	out, err := runCLI(t, server, "total")
	require.NoError(t, err)
	assert.Equal(t, "€ 12.50\n", out)

	out, err = runCLI(t, server, "leaderboard")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Piet")
	assert.Contains(t, lines[2], "Jan")

	out, err = runCLI(t, server, "history", "Jan")
	require.NoError(t, err)
	assert.Contains(t, out, "Te laat")

	out, err = runCLI(t, server, "recent")
	require.NoError(t, err)
	assert.Contains(t, out, "Telefoon")

	_, err = runCLI(t, server, "--password", "geheim", "player", "add", "Kees")
	require.NoError(t, err)
	out, err = runCLI(t, server, "player", "ls")
	require.NoError(t, err)
	assert.Equal(t, "Jan\nPiet\nKees\n", out)

	_, err = runCLI(t, server, "--password", "geheim", "reason", "add", "Gele kaart")
	require.NoError(t, err)
	out, err = runCLI(t, server, "reason", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Gele kaart")
	assert.Contains(t, out, "5.00")

	path := filepath.Join(t.TempDir(), "seizoen.xlsx")
	_, err = runCLI(t, server, "export", path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = runCLI(t, server, "--password", "geheim", "reset", "--yes")
	require.NoError(t, err)
	out, err = runCLI(t, server, "total")
	require.NoError(t, err)
	assert.Equal(t, "€ 0.00\n", out)
}

func TestBoetectl_ChangesNeedPassword(t *testing.T) {
	server := startServer(t)

	_, err := runCLI(t, server, "player", "add", "Kees")
	require.Error(t, err)

	_, err = runCLI(t, server, "--password", "fout", "player", "add", "Kees")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect password")

	out, err := runCLI(t, server, "player", "ls")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBoetectl_ArgumentErrors(t *testing.T) {
	server := startServer(t)

	tests := []struct {
		name string
		args []string
	}{
		{"fine add missing args", []string{"--password", "geheim", "fine", "add", "Jan"}},
		{"fine add bad amount", []string{"--password", "geheim", "fine", "add", "Jan", "vijf", "Laat"}},
		{"fine rm bad id", []string{"--password", "geheim", "fine", "rm", "abc"}},
		{"reset without confirmation", []string{"--password", "geheim", "reset"}},
		{"export without file", []string{"export"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, server, tt.args...)
			require.Error(t, err)
		})
	}
}
