/*
Package domain contains the core domain models of the talebox player.

It defines the story graph entities and the vocabulary shared by the story model,
the library and the runtime controller. This package is kept pure and free of
external dependencies like I/O or persistence.

# Key Entities

  - Stage: A page of a book (image, narration and its OK/HOME transitions).
  - Choice: A branch point, an ordered list of candidate next stages.
  - Transition: A pointer from a stage to a Choice with a default option.
  - Story: The decoded graph of one book, as produced by a loader.
  - Key / Status: The physical controls and the held-state snapshot used for chords.
*/
package domain
