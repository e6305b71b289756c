package cmd

import "github.com/maxbolgarin/logze/v2"

func testLogger() logze.Logger {
	return logze.With("component", "test")
}
