package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"

	"github.com/lehigh-university-libraries/bibmatch/cmd"
)

// version is stamped at release time with -ldflags "-X main.version=v1.2.3".
var version string

func main() {
	if err := fang.Execute(
		context.Background(),
		cmd.NewRootCmd(),
		fang.WithVersion(resolveVersion()),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}

func resolveVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
