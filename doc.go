/*
Package talebox is the runtime of an interactive audio-storybook player.

A library folder holds one directory per book. Each book is a small story graph:
stages show an image, play narration and move on when the child presses OK,
HOME or turns the wheel. Books come either as a plain descriptor (story.json or
story.yaml next to an assets folder) or as an encrypted binary pack (ni, li, ri,
si index files plus rf/ and sf/ asset trees).

# Architecture

The module follows a hexagonal layout:

  - pkg/domain holds the story model types, keys and errors.
  - pkg/book is the per-book cursor state machine.
  - pkg/library scans, reloads and browses the books.
  - pkg/runner is the controller: one event queue fed by buttons, playback
    completion, overlay timeouts, signals and remote requests.
  - pkg/ports declares the device contracts (Display, AudioSink, InputSource);
    pkg/adapters implements them and the book formats.

# Usage

	p, err := talebox.New(ctx, "/media/library",
		talebox.WithDisplay(display),
		talebox.WithAudio(player),
		talebox.WithInput(buttons),
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := p.Run(ctx); err != nil {
		log.Fatal(err)
	}

The talebox command wires the same pieces from a configuration file.
*/
package talebox
