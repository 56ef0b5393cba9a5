package companion

import (
	"context"
	"log/slog"

	"github.com/zero-day-ai/pathbridge/protocol"
	"github.com/zero-day-ai/pathbridge/transport"
)

// Serve answers planner requests on t with sim until shutdown, then prints
// the accumulated route cost.
func Serve(ctx context.Context, t transport.Transport, format protocol.Format, sim *Sim, logger *slog.Logger) error {
	srv := protocol.NewServer(t, format, sim, logger)
	err := srv.Serve(ctx)
	if err == nil {
		sim.Report()
	}
	return err
}
