package cli

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dirgraph/pkg/observability"
)

// logHooks reports engine, listing and session events through the CLI logger.
type logHooks struct {
	logger *log.Logger
}

// registerHooks installs logHooks as the global observability hooks.
func registerHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetGraphHooks(h)
	observability.SetListingHooks(h)
	observability.SetSessionHooks(h)
}

func (h logHooks) OnExpand(key string, children int, d time.Duration) {
	h.logger.Debug("expand", "path", key, "children", children, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnCollapse(key string, removed int) {
	h.logger.Debug("collapse", "path", key, "removed", removed)
}

func (h logHooks) OnOpenRequested(key string) {
	h.logger.Info("open", "path", key)
}

func (h logHooks) OnListError(key string, err error) {
	h.logger.Warn("listing failed", "path", key, "err", err)
}

func (h logHooks) OnClientConnect(id string) {
	h.logger.Info("client connected", "client", id)
}

func (h logHooks) OnClientDisconnect(id string, err error) {
	if err != nil {
		h.logger.Warn("client disconnected", "client", id, "err", err)
		return
	}
	h.logger.Info("client disconnected", "client", id)
}
