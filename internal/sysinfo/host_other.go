//go:build !linux

package sysinfo

import "runtime"

func hostPlatform() string {
	return platformName(runtime.GOOS)
}

func hostOSVersion() string {
	return "Unknown Version"
}

func hostCPU() string {
	return fallbackCPU()
}
