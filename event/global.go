package event

import (
	"sync"

	"github.com/agentflow/agentcore/agentcoreerr"
)

var (
	globalMu   sync.Mutex
	globalInst *Emitter
)

// InitGlobal installs cfg as the process-wide emitter. Calling it twice
// without an intervening TeardownGlobal is a lifecycle error.
func InitGlobal(cfg Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalInst != nil {
		return agentcoreerr.New(agentcoreerr.CodeLifecycle, "global emitter already initialized")
	}
	globalInst = New(cfg)
	globalInst.Start()
	return nil
}

// Global returns the process-wide emitter. Calling it before InitGlobal is
// a lifecycle error.
func Global() (*Emitter, error) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalInst == nil {
		return nil, agentcoreerr.New(agentcoreerr.CodeLifecycle, "global emitter used before init")
	}
	return globalInst, nil
}

// TeardownGlobal stops and releases the process-wide emitter. A no-op if
// none is installed.
func TeardownGlobal() {
	globalMu.Lock()
	inst := globalInst
	globalInst = nil
	globalMu.Unlock()
	if inst != nil {
		inst.Stop()
	}
}
