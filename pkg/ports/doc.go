/*
Package ports defines the driven ports (interfaces) of the talebox player.

These interfaces decouple the story model and the runtime controller from the
device: the screen, the audio back-end, the buttons and the on-disk book formats.

# Key Interfaces

  - StoryLoader: Detects and loads one book format (descriptor, binary pack, memory).
  - AssetResolver: Opens the image and audio assets referenced by stages.
  - Display: Paints a decoded still image and powers the panel.
  - AudioSink: Streams narration and reports its completion once.
  - InputSource: Produces debounced key presses with a held-state snapshot.
*/
package ports
