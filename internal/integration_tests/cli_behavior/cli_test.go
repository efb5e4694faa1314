package integration_tests

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Dwoggurd/Ptree-Loader/internal/app"
	"github.com/Dwoggurd/Ptree-Loader/internal/cli"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy Path with all flags",
			args: []string{
				"-format", "yaml",
				"-log-level", "debug",
				"-log-format", "json",
				"-watch",
				"/etc/app/conf.txt",
			},
			expectedConfig: &app.Config{
				Path:      "/etc/app/conf.txt",
				Format:    "yaml",
				LogFormat: "json",
				LogLevel:  "debug",
				Watch:     true,
			},
		},
		{
			name: "Defaults with positional path only",
			args: []string{"conf.yaml"},
			expectedConfig: &app.Config{
				Path:      "conf.yaml",
				LogFormat: "text",
				LogLevel:  "info",
			},
		},
		{
			name:       "No arguments prints usage",
			args:       nil,
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "Usage:")
				require.Contains(t, output, "CONFIG_PATH")
			},
		},
		{
			name:       "Help flag",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "Usage:")
			},
		},
		{
			name:      "Unknown flag",
			args:      []string{"-frmt", "yaml", "conf.yaml"},
			expectErr: true,
		},
		{
			name:      "Invalid log level",
			args:      []string{"-log-level", "chatty", "conf.yaml"},
			expectErr: true,
		},
		{
			name:      "Invalid log format",
			args:      []string{"-log-format", "yaml", "conf.yaml"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			cfg, shouldExit, err := cli.Parse(tc.args, &out)

			if tc.expectErr {
				var exitErr *cli.ExitError
				require.ErrorAs(t, err, &exitErr)
				require.Equal(t, 2, exitErr.Code)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectExit, shouldExit)

			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, cfg); diff != "" {
					t.Errorf("config mismatch (-want +got):\n%s", diff)
				}
			}
			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}

func TestParse_UsageListsEveryOption(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, shouldExit, err := cli.Parse(nil, &out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	for _, option := range []string{"-format", "-f", "-log-format", "-log-level", "-watch"} {
		require.True(t, strings.Contains(out.String(), option), "usage should mention %s", option)
	}
}
