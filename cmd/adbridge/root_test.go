package main

import "testing"

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"serve", "providers", "connect", "disconnect", "status", "version"} {
		if cmd, _, err := rootCmd.Find([]string{name}); err != nil || cmd == nil || cmd.Name() != name {
			t.Fatalf("%s command not registered: cmd=%v err=%v", name, cmd, err)
		}
	}
}

func TestCommandUsesStructuredLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{name: "serve", want: true},
		{name: "providers", want: false},
		{name: "connect", want: false},
		{name: "disconnect", want: false},
		{name: "status", want: false},
		{name: "version", want: false},
	}
	for _, tt := range tests {
		cmd, _, err := rootCmd.Find([]string{tt.name})
		if err != nil || cmd == nil {
			t.Fatalf("%s: not found: %v", tt.name, err)
		}
		if got := commandUsesStructuredLogging(cmd); got != tt.want {
			t.Fatalf("%s: structured logging = %v, want %v", tt.name, got, tt.want)
		}
	}
}
