package orchestrator

import (
	"io"
	"os/exec"
	"strconv"
	"syscall"
)

// configureProcess hides the console window and detaches the child into its
// own process group so the whole tree can be terminated.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// killTree terminates the child and its descendants via taskkill /T.
func killTree(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
	kill.Stdout = io.Discard
	kill.Stderr = io.Discard
	_ = kill.Run()
	_ = cmd.Process.Kill()
}
