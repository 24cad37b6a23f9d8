package process

import "context"

// Services implements ports.Services with the "services.up" and "services.down" commands.
// Missing commands are skipped.
type Services struct {
	runner *Runner
}

// NewServices creates Services backed by r.
func NewServices(r *Runner) *Services {
	return &Services{runner: r}
}

// Up starts the settings services.
func (s *Services) Up(ctx context.Context) error {
	return s.run(ctx, CommandServicesUp)
}

// Down stops the settings services.
func (s *Services) Down(ctx context.Context) error {
	return s.run(ctx, CommandServicesDown)
}

func (s *Services) run(ctx context.Context, name string) error {
	if !s.runner.Has(name) {
		return nil
	}
	_, err := s.runner.Execute(ctx, name, nil)
	return err
}
