package main

import "sync"

// commandExecutionContext records which command is running so the fatal
// error path can match that command's output convention: structured logs
// for long-running commands, plain stderr for interactive ones.
type commandExecutionContext struct {
	CommandPath       string
	UsesStructuredLog bool
}

var (
	commandExecMu  sync.Mutex
	commandExecCtx commandExecutionContext
)

func currentCommandExecutionContext() commandExecutionContext {
	commandExecMu.Lock()
	defer commandExecMu.Unlock()
	return commandExecCtx
}

func setCommandExecutionContext(ctx commandExecutionContext) {
	commandExecMu.Lock()
	defer commandExecMu.Unlock()
	commandExecCtx = ctx
}

func resetCommandExecutionContext() {
	setCommandExecutionContext(commandExecutionContext{})
}
