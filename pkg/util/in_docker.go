package util

import "os"

// IsRunningInDocker reports whether the process runs inside a docker container,
// where the sqlite file has to come from a mounted volume
func IsRunningInDocker() bool {
	_, err := os.Stat("/.dockerenv")
	return err == nil
}
