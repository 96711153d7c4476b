package domain

// Command is a resolved executable invocation template: an absolute binary
// path plus the fixed argument prefix configured for a task kind. Task
// arguments are appended after Args at spawn time.
type Command struct {
	Path string
	Args []string
}
