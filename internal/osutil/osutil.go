package osutil

const (
	Windows = "windows"
	Darwin  = "darwin"
)

type exitCode int

const (
	ExitOK    exitCode = 0
	ExitError exitCode = 1
)

// Code converts the exit code for os.Exit.
func (c exitCode) Code() int {
	return int(c)
}

const (
	DirPermission  = 0o750
	FilePermission = 0o600
)
