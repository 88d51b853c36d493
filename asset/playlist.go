package asset

// DefaultPlaylistYAML is the playlist used when no manifest is configured
// Synthesized tones keep the binary self-contained
const DefaultPlaylistYAML = `
# Ambient playlist: title shown in the panel, source handed to the audio backend
# Sources: path/to/file.wav, path/to/file.mp3 or tone:<hz>:<duration>
items:
  - title: Morning Blossom
    source: "tone:261.63:40s"
  - title: Petal Drift
    source: "tone:329.63:40s"
  - title: Lantern Walk
    source: "tone:392.00:40s"
  - title: Spring Rain
    source: "tone:440.00:40s"
  - title: Evening Garden
    source: "tone:523.25:40s"

# Played once after the page loads
voiceover: "tone:659.25:3s"
`
