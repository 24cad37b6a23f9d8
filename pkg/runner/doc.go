/*
Package runner implements the controller loop of the talebox player.

Producers (OS signals, the button device, audio completion, overlay timeouts, library
reloads and remote Send calls) push Events into one ordered queue. The Runner is the
only consumer: it classifies each event, moves the book cursor or the library
selection, then renders the resulting Next step through the Display and AudioSink.

# Key Components

  - Runner: The controller. Run blocks until shutdown.
  - Event / Next: The queue entries and the presentation steps.
  - Timeout: The cancellable one-shot timer dismissing overlays.
  - SignalManager: Maps SIGINT/SIGTERM to the shutdown key.

# Usage

	r := runner.New(lib,
		runner.WithDisplay(display),
		runner.WithAudio(audio),
		runner.WithInput(buttons),
		runner.WithOverlayDir("/usr/share/talebox/assets"),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
