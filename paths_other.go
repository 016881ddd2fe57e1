//go:build !linux && !darwin && !windows

package locationsharinglib

func chromiumUserDataDirs(Browser) []string { return nil }

func firefoxRoots() []string { return nil }
