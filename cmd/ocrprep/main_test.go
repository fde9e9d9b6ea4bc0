package main

import (
	"strings"
	"testing"
)

func TestRunDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no args", args: nil, wantCode: ExitUsage, wantStderr: "Usage: ocrprep"},
		{name: "version", args: []string{"version"}, wantCode: ExitSuccess, wantStdout: "ocrprep"},
		{name: "help", args: []string{"help"}, wantCode: ExitSuccess, wantStdout: "Commands:"},
		{name: "help convert", args: []string{"help", "convert"}, wantCode: ExitSuccess, wantStdout: "ocrprep convert"},
		{name: "unknown command", args: []string{"explode"}, wantCode: ExitUsage, wantStderr: "Unknown command"},
		{name: "convert without input", args: []string{"convert"}, wantCode: ExitIO, wantStderr: "no input"},
		{name: "convert bad flag", args: []string{"convert", "--bogus"}, wantCode: ExitUsage},
		{name: "render bad flag", args: []string{"render", "--bogus"}, wantCode: ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := run(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("run(%v) = %d, want %d", tt.args, code, tt.wantCode)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout %q missing %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr %q missing %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
