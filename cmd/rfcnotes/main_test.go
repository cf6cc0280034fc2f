package main

// Notes:
// - run: we test command dispatch and exit codes. Actual annotation is
//   covered by the annotate and generate tests.
// - notifyContext: we test that stop cancels the context; delivering real
//   signals is left out.

import (
	"context"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRun - Command dispatch
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		want       int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, ExitUsage, "", "Usage: rfcnotes"},
		{"unknown command", []string{"bogus"}, ExitUsage, "", `unknown command "bogus"`},
		{"version", []string{"version"}, ExitSuccess, "rfcnotes " + Version, ""},
		{"version flag", []string{"--version"}, ExitSuccess, "rfcnotes", ""},
		{"help", []string{"help"}, ExitSuccess, "Commands:", ""},
		{"help flag", []string{"--help"}, ExitSuccess, "Commands:", ""},
		{"annotate help", []string{"annotate", "--help"}, ExitSuccess, "", "Usage: rfcnotes annotate"},
		{"annotate invalid flag", []string{"annotate", "--nope"}, ExitUsage, "", "invalid flags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, stdout, stderr := runCmd(t, tt.args...)
			if code != tt.want {
				t.Errorf("run() = %d, want %d; stderr: %s", code, tt.want, stderr)
			}
			if !strings.Contains(stdout, tt.wantStdout) {
				t.Errorf("stdout missing %q:\n%s", tt.wantStdout, stdout)
			}
			if !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, stderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNotifyContext
// ---------------------------------------------------------------------------

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	ctx, stop := notifyContext(context.Background())
	if ctx.Err() != nil {
		t.Fatal("context canceled before stop")
	}
	stop()
	<-ctx.Done()
}
