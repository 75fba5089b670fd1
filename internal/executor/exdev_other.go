//go:build !unix

package executor

func isEXDEV(error) bool { return false }
