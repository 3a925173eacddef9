// Package polish reshapes merged cues for comfortable subtitle display:
// merging micro-gaps, enforcing duration floors and ceilings, extending cues
// that exceed a reading-speed budget and wrapping text into display lines.
// It never touches word timing; karaoke output renders from the unpolished
// transcript.
package polish
