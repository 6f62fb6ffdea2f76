package main

import (
	"context"
	"fmt"
	"os"

	"github.com/manan0901/Vibecoder-sub002/internal/app/bootstrap"
)

func main() {
	cfg, err := bootstrap.LoadConfig("configs/default.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap:", err)
		os.Exit(1)
	}
	if err := runtime.RunAPI(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "api:", err)
		os.Exit(1)
	}
}
