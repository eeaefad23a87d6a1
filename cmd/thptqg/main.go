package main

import (
	"context"

	"github.com/teppyboy/vn-thptqg-2024/cmd/thptqg/commands"
	"github.com/teppyboy/vn-thptqg-2024/lib/serviceutil"
	"github.com/teppyboy/vn-thptqg-2024/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	err := telemetry.SetupFromEnv(ctx, "thptqg")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
