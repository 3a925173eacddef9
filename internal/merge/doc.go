// Package merge reconciles the base and aligned transcripts into a single
// timeline that downstream renderers can trust unconditionally: segments
// ordered and non-overlapping, every word timed and inside its segment. The
// base engine contributes the coarse segmentation, the aligned engine the
// wording and word timing; every repair the synchronizer makes along the way
// is counted in a Report, and excessive clipping aborts the merge instead of
// emitting a silently broken timeline.
package merge
