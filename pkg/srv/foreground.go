package srv

import "context"

// foregroundService stops the whole process once the wrapped service returns,
// e.g. when the user leaves an interactive chat.
type foregroundService struct {
	Service
	stop context.CancelFunc
}

func (f *foregroundService) Start(ctx context.Context) error {
	defer f.stop()
	return f.Service.Start(ctx)
}

func NewForeground(svc Service, stop context.CancelFunc) Service {
	return &foregroundService{Service: svc, stop: stop}
}
