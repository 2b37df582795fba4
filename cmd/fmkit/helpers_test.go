// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fmkit/fmkit/internal/config"
	"github.com/fmkit/fmkit/internal/testutil"
)

// staticConfig is a ConfigProvider returning a fixed configuration.
type staticConfig struct {
	cfg  *config.Config
	path string
	err  error
}

func (p staticConfig) Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error) {
	cfg, _, err := p.Resolve(ctx, opts)
	return cfg, err
}

func (p staticConfig) Resolve(context.Context, config.LoadOptions) (*config.Config, string, error) {
	if p.err != nil {
		return nil, "", p.err
	}
	if p.cfg == nil {
		return config.DefaultConfig(), p.path, nil
	}
	return p.cfg, p.path, nil
}

// runCLI executes the command tree with args and captures both streams.
func runCLI(t *testing.T, provider ConfigProvider, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app, appErr := NewApp(Dependencies{Config: provider, Stdout: &out, Stderr: &errOut})
	if appErr != nil {
		t.Fatalf("NewApp() error = %v", appErr)
	}
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)

	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func fixture(name string) string {
	return filepath.Join("..", "..", "pkg", "fmparser", "testdata", name)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	return testutil.WriteFile(t, dir, name, content)
}

// bambooBikeCanonical is the canonical form of the bamboo bike fixtures.
const bambooBikeCanonical = "FEATURES:\n" +
	"\tBamboo Bike\n\tFrame\n\tBrake\n\tEngine\n\tDrop Handlebar\n" +
	"\tFemale\n\tMale\n\tStep-through\n\tFront\n\tRear\n\tBack-pedal\n" +
	"RELATIONSHIPS:\n" +
	"\tmandatory(Bamboo Bike, Frame)\n" +
	"\tmandatory(Bamboo Bike, Brake)\n" +
	"\toptional(Engine, Bamboo Bike)\n" +
	"\toptional(Drop Handlebar, Bamboo Bike)\n" +
	"\talternative(Frame, Female, Male, Step-through)\n" +
	"\tor(Brake, Front, Rear, Back-pedal)\n" +
	"CONSTRAINTS:\n" +
	"\trequires(Drop Handlebar, Male)\n" +
	"\texcludes(Engine, Back-pedal)\n"

const conflictModel = "FEATURES:\n" +
	"\tRoot\n\tA\n\tB\n" +
	"RELATIONSHIPS:\n" +
	"\toptional(A, Root)\n" +
	"\toptional(B, Root)\n" +
	"CONSTRAINTS:\n" +
	"\trequires(A, B)\n" +
	"\texcludes(A, B)\n"
