package cmd

import "testing"

func TestRunCommandRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "run" {
			if c.RunE == nil {
				t.Error("run command has no RunE")
			}
			return
		}
	}
	t.Error("run is not registered on the root command")
}

func TestRootRejectsUnknownArgs(t *testing.T) {
	if err := rootCmd.Args(rootCmd, []string{"bogus"}); err == nil {
		t.Error("root should reject positional arguments instead of silently launching the TUI")
	}
	if err := runCmd.Args(runCmd, []string{"bogus"}); err == nil {
		t.Error("run should reject positional arguments")
	}
}

func TestResolveServerURLPrecedence(t *testing.T) {
	t.Setenv("LANGMATE_SERVER", "")
	if got := resolveServerURL(rootCmd); got != defaultServerURL {
		t.Errorf("want default %q, got %q", defaultServerURL, got)
	}

	t.Setenv("LANGMATE_SERVER", "http://env.example:4000/api")
	if got := resolveServerURL(rootCmd); got != "http://env.example:4000/api" {
		t.Errorf("env var should win over the default, got %q", got)
	}

	if err := rootCmd.ParseFlags([]string{"--server", "http://flag.example:9000/api"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	t.Cleanup(func() { _ = rootCmd.Flags().Set("server", "") })
	if got := resolveServerURL(rootCmd); got != "http://flag.example:9000/api" {
		t.Errorf("--server should win over the env var, got %q", got)
	}
}
