package service

import "context"

// importGate admits one import at a time
type importGate struct {
	slot chan struct{}
}

func newImportGate() *importGate {
	return &importGate{slot: make(chan struct{}, 1)}
}

// TryAcquire takes the gate without waiting
func (g *importGate) TryAcquire() bool {
	select {
	case g.slot <- struct{}{}:
		return true
	default:
		return false
	}
}

// Acquire waits for the gate or ctx
func (g *importGate) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case g.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *importGate) Release() {
	<-g.slot
}

func (g *importGate) Busy() bool {
	return len(g.slot) > 0
}
