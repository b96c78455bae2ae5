package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/ssargent/octet/pkg/api"
	"github.com/ssargent/octet/pkg/codec"
	"github.com/ssargent/octet/pkg/di"
	"go.uber.org/zap"
)

// recordingStarter captures the arguments of StartServer instead of serving
type recordingStarter struct {
	calls  int
	config api.ServerConfig
	vault  api.ISeedVault
}

func (s *recordingStarter) StartServer(_ context.Context, config api.ServerConfig, vault api.ISeedVault, _ api.RandomSource, _ *zap.Logger) error {
	s.calls++
	s.config = config
	s.vault = vault
	return nil
}

type recordingFactory struct {
	starter *recordingStarter
}

func (f *recordingFactory) CreateServerStarter() api.ServerStarter {
	return f.starter
}

// countingProvider fills buffers with 0, 1, 2, ...
func countingProvider() codec.Provider {
	var n byte
	return codec.MapProvider{codec.SourceCrypto: codec.FillerFunc(func(p []byte) error {
		for i := range p {
			p[i] = n
			n++
		}
		return nil
	})}
}

type testCLI struct {
	configPath string
	dataDir    string
	starter    *recordingStarter
}

// newTestCLI installs a container with deterministic randomness and a
// recording server factory, rooted in a temporary directory.
func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	dir := t.TempDir()

	starter := &recordingStarter{}
	c := di.NewContainer()
	c.SetRandomProvider(countingProvider())
	c.SetServerFactory(&recordingFactory{starter: starter})
	SetContainer(c)
	t.Cleanup(func() {
		SetContainer(nil)
		codec.SetMode(codec.ModeModern)
		codec.SetDefaultUTF8Codec(codec.NativeUTF8)
	})

	return &testCLI{
		configPath: filepath.Join(dir, "config.yaml"),
		dataDir:    filepath.Join(dir, "data"),
		starter:    starter,
	}
}

// run executes the CLI with the test config and data dir prepended
func (c *testCLI) run(args ...string) (string, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", c.configPath, "--data-dir", c.dataDir, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}
