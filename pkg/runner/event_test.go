package runner_test

import (
	"testing"

	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/runner"
	"github.com/stretchr/testify/assert"
)

func TestCompletionKey(t *testing.T) {
	tests := []struct {
		name     string
		controls domain.ControlSettings
		want     domain.Key
	}{
		{"OK", domain.ControlSettings{OK: true}, domain.KeyOK},
		{"Autoplay", domain.ControlSettings{Autoplay: true}, domain.KeyOK},
		{"OKWinsOverHome", domain.ControlSettings{OK: true, Home: true}, domain.KeyOK},
		{"Home", domain.ControlSettings{Home: true, Wheel: true}, domain.KeyHome},
		{"None", domain.ControlSettings{Wheel: true, Pause: true}, domain.KeyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runner.CompletionKey(tt.controls))
		})
	}
}
